package web

import (
	"github.com/gin-gonic/gin"
)

// profilePage shows the logged-in user's profile. The auth middleware
// guarantees the session exists by the time this runs.
func (s *WebServer) profilePage(c *gin.Context) {
	session := s.getWebSession(c)
	if session == nil {
		// Should not happen behind WebAuthRequired
		c.Redirect(303, "/register")
		return
	}

	success, errorMsg := GetAndClearFlash(session.SessionID)

	data := ProfilePageData{
		TemplateData: s.getBaseTemplateData(c, "Профіль"),
		FlashSuccess: success,
		FlashError:   errorMsg,
	}
	data.User = session.User
	s.renderTemplate(c, "profile.html", data)
}

// settingsPage shows the account settings page
func (s *WebServer) settingsPage(c *gin.Context) {
	session := s.getWebSession(c)
	if session == nil {
		c.Redirect(303, "/register")
		return
	}

	data := s.getBaseTemplateData(c, "Налаштування")
	data.User = session.User
	s.renderTemplate(c, "settings.html", data)
}
