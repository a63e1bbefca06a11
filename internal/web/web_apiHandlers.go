package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// getCourses serves the course catalog as a JSON array. Every course
// carries its lessons in lesson-number order, an empty catalog is [].
func (s *WebServer) getCourses(c *gin.Context) {
	courses, err := s.Catalog.ListCourses()
	if err != nil {
		log.Printf("[API] failed to load courses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Не вдалося завантажити курси."})
		return
	}

	c.JSON(http.StatusOK, courses)
}
