package web

import (
	"github.com/gin-gonic/gin"
)

// HomePageData represents data for the home page
type HomePageData struct {
	TemplateData
	CourseCount int
}

func (s *WebServer) homePage(c *gin.Context) {
	courses, _ := s.DB.GetCoursesOrdered()

	data := HomePageData{
		TemplateData: s.getBaseTemplateData(c, "Kotoba School"),
		CourseCount:  len(courses),
	}
	s.renderTemplate(c, "home.html", data)
}

// contactPage renders the static contact page
func (s *WebServer) contactPage(c *gin.Context) {
	data := s.getBaseTemplateData(c, "Контакти")
	s.renderTemplate(c, "contact.html", data)
}
