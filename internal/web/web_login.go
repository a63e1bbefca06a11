package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// loginSubmit processes the login form. Success stores a session, sets
// the welcome flash and redirects to the profile. Failure re-renders the
// register page with the login errors and the matching status code.
func (s *WebServer) loginSubmit(c *gin.Context) {
	identifier := c.PostForm("identifier")
	password := c.PostForm("password")

	result := s.Auth.LoginUser(identifier, password)
	if !result.Success {
		data := RegisterPageData{
			TemplateData: s.getBaseTemplateData(c, "Вхід"),
			LoginErrors:  result.Errors,
		}
		s.renderTemplateStatus(c, result.Status, "register.html", data)
		return
	}

	sessionID, err := s.createWebSession(c, result.User)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Session error", err.Error())
		return
	}

	SetFlashSuccess(sessionID, result.Message)
	c.Redirect(http.StatusSeeOther, "/profile")
}

// logout destroys the current session and returns to the home page.
// Anonymous visitors are redirected all the same.
func (s *WebServer) logout(c *gin.Context) {
	s.destroyWebSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}
