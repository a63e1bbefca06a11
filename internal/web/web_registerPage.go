package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kotoba-school/kotoba/internal/auth"
)

// registerPage displays the combined registration and login page
func (s *WebServer) registerPage(c *gin.Context) {
	// Logged-in visitors have no business here
	if session := s.getWebSession(c); session != nil {
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}

	data := RegisterPageData{
		TemplateData: s.getBaseTemplateData(c, "Реєстрація"),
	}
	s.renderTemplate(c, "register.html", data)
}

// registerSubmit processes the registration form and re-renders the page
// with the outcome envelope. The response code mirrors the outcome so
// clients and tests can tell the cases apart.
func (s *WebServer) registerSubmit(c *gin.Context) {
	if !s.DB.IsRegistrationEnabled() {
		data := RegisterPageData{
			TemplateData:   s.getBaseTemplateData(c, "Реєстрація"),
			RegisterErrors: []string{auth.MsgRegistrationClosed},
		}
		s.renderTemplateStatus(c, http.StatusForbidden, "register.html", data)
		return
	}

	form := auth.RegisterForm{
		Login:           c.PostForm("login"),
		ProfileName:     c.PostForm("profileName"),
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password"),
		PasswordConfirm: c.PostForm("passwordConfirm"),
	}

	result := s.Auth.RegisterUser(form)

	data := RegisterPageData{
		TemplateData:    s.getBaseTemplateData(c, "Реєстрація"),
		Form:            result.Form,
		RegisterErrors:  result.Errors,
		RegisterSuccess: result.Message,
	}
	s.renderTemplateStatus(c, result.Status, "register.html", data)
}
