package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// courseManagementPage renders the course catalog shell. The level tabs
// and lesson grid are filled in by static/js/course-management.js from
// the JSON endpoint.
func (s *WebServer) courseManagementPage(c *gin.Context) {
	courses, err := s.Catalog.ListCourses()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	data := CoursePageData{
		TemplateData: s.getBaseTemplateData(c, "Курси"),
		Courses:      courses,
	}
	s.renderTemplate(c, "courses.html", data)
}
