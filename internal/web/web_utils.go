package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kotoba-school/kotoba/internal/config"
)

//go:embed templates/*.html
var EmbeddedTemplatesFS embed.FS

// getBaseTemplateData creates a TemplateData struct with common information including user auth
func (s *WebServer) getBaseTemplateData(c *gin.Context, title string) TemplateData {
	data := TemplateData{
		Title:               title,
		CurrentTime:         time.Now().Format("2006-01-02 15:04:05"),
		Port:                s.Config.ListenPort,
		AppVersion:          config.AppVersion,
		RegistrationEnabled: s.DB.IsRegistrationEnabled(),
	}

	// Add user information if logged in
	if session := s.getWebSession(c); session != nil {
		data.User = session.User
	}

	return data
}

// renderError renders the error page with consistent formatting
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	errorData := struct {
		TemplateData
		Error      string
		StatusCode int
	}{
		TemplateData: s.getBaseTemplateData(c, "Error"),
		Error:        message,
		StatusCode:   statusCode,
	}
	log.Printf("[ERROR] %d: %s - %s", statusCode, message, errstring)

	// Load template individually to avoid engine setup issues
	tmpl := template.Must(template.ParseFS(EmbeddedTemplatesFS, "templates/base.html", "templates/error.html"))
	c.Header("Content-Type", "text/html")
	c.Status(statusCode)
	err := tmpl.ExecuteTemplate(c.Writer, "base.html", errorData)
	if err != nil {
		log.Printf("Error rendering error template: %v", err)
		c.String(statusCode, "Error: %s - %s", message, errstring)
	}
}

// renderTemplate renders a template with the given data under base.html
func (s *WebServer) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// Load template individually to avoid engine setup issues
	tmpl := template.Must(template.ParseFS(EmbeddedTemplatesFS, "templates/base.html", "templates/"+templateName))
	c.Header("Content-Type", "text/html")
	err := tmpl.ExecuteTemplate(c.Writer, "base.html", data)
	if err != nil {
		log.Printf("Error rendering template %s: %v", templateName, err)
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
	}
}

// renderTemplateStatus is renderTemplate with an explicit response code,
// used when a form re-render reports a client error.
func (s *WebServer) renderTemplateStatus(c *gin.Context, statusCode int, templateName string, data interface{}) {
	tmpl := template.Must(template.ParseFS(EmbeddedTemplatesFS, "templates/base.html", "templates/"+templateName))
	c.Header("Content-Type", "text/html")
	c.Status(statusCode)
	err := tmpl.ExecuteTemplate(c.Writer, "base.html", data)
	if err != nil {
		log.Printf("Error rendering template %s: %v", templateName, err)
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
	}
}
