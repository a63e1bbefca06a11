package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kotoba-school/kotoba/internal/config"
	"github.com/kotoba-school/kotoba/internal/database"
	"github.com/kotoba-school/kotoba/internal/models"
)

// FlashMessage is a one-shot message shown on the next page render
type FlashMessage struct {
	Type    string
	Message string
}

// Global flash message map and mutex
var (
	flashMessages   = make(map[string]FlashMessage)
	flashMessagesMu sync.RWMutex
)

// SetFlashError sets a temporary error message for a session
func SetFlashError(sessionID, msg string) {
	flashMessagesMu.Lock()
	flashMessages[sessionID] = FlashMessage{Type: "error", Message: msg}
	flashMessagesMu.Unlock()
}

// SetFlashSuccess sets a temporary success message for a session
func SetFlashSuccess(sessionID, msg string) {
	flashMessagesMu.Lock()
	flashMessages[sessionID] = FlashMessage{Type: "success", Message: msg}
	flashMessagesMu.Unlock()
}

// GetAndClearFlash retrieves and clears flash messages for a session
func GetAndClearFlash(sessionID string) (success, errorMsg string) {
	flashMessagesMu.Lock()
	fm := flashMessages[sessionID]
	switch fm.Type {
	case "success":
		success = fm.Message
	case "error":
		errorMsg = fm.Message
	}
	delete(flashMessages, sessionID)
	flashMessagesMu.Unlock()
	return
}

// SessionData represents session information with user data
type SessionData struct {
	SessionID string
	UserID    int64
	User      *models.SessionUser
	ExpiresAt time.Time
}

// WebAuthRequired middleware guards pages that need a logged-in user
func (s *WebServer) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := s.getWebSession(c)
		if session == nil {
			c.Redirect(http.StatusSeeOther, "/register")
			c.Abort()
			return
		}

		// Store user in context for handlers
		c.Set("user", session.User)
		c.Next()
	}
}

// signSessionID computes the HMAC signature for a session ID so a
// tampered cookie never reaches the database.
func (s *WebServer) signSessionID(sessionID string) string {
	mac := hmac.New(sha256.New, []byte(s.Config.SessionSecret))
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignedSessionID splits a "id.signature" cookie value and checks
// the signature. Returns the bare session ID or "" on mismatch.
func (s *WebServer) verifySignedSessionID(value string) string {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return ""
	}
	expected := s.signSessionID(parts[0])
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return ""
	}
	return parts[0]
}

// getWebSession retrieves the session from the cookie and returns full
// session data, or nil when the visitor is anonymous.
func (s *WebServer) getWebSession(c *gin.Context) *SessionData {
	cookieValue, err := c.Cookie(config.SessionCookieName)
	if err != nil {
		return nil
	}

	sessionID := s.verifySignedSessionID(cookieValue)
	if sessionID == "" {
		return nil
	}

	session, err := s.DB.ValidateSession(sessionID, s.Config.SessionLifetime)
	if err != nil {
		return nil
	}

	user := session.User
	return &SessionData{
		SessionID: session.ID,
		UserID:    session.UserID,
		User:      &user,
		ExpiresAt: session.ExpiresAt,
	}
}

// createWebSession creates a new session for a logged-in user and sets
// the signed cookie.
func (s *WebServer) createWebSession(c *gin.Context, user *models.SessionUser) (string, error) {
	sessionID, err := database.GenerateSecureSessionID()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	session := &models.Session{
		ID:        sessionID,
		UserID:    user.ID,
		User:      *user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.Config.SessionLifetime),
	}
	if err := s.DB.InsertSession(session); err != nil {
		return "", err
	}

	s.setSessionCookie(c, sessionID)
	return sessionID, nil
}

// destroyWebSession deletes the current session, if any, and clears the
// cookie.
func (s *WebServer) destroyWebSession(c *gin.Context) {
	if session := s.getWebSession(c); session != nil {
		if err := s.DB.DeleteSession(session.SessionID); err != nil {
			// Log only, the cookie gets cleared regardless
			log.Printf("[WEB] failed to delete session: %v", err)
		}
	}
	s.clearSessionCookie(c)
}

// Helper function to set session cookie
func (s *WebServer) setSessionCookie(c *gin.Context, sessionID string) {
	// Detect HTTPS from the current request perspective only
	// Prefer actual TLS on the request or trusted reverse proxy header
	isHTTPS := c.Request != nil && (c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https"))

	cookie := &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    sessionID + "." + s.signSessionID(sessionID),
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS,
		SameSite: http.SameSiteLaxMode, // Works well with reverse proxies
		MaxAge:   int(s.Config.SessionLifetime.Seconds()),
	}

	http.SetCookie(c.Writer, cookie)
}

// Helper function to clear session cookie
func (s *WebServer) clearSessionCookie(c *gin.Context) {
	// Detect HTTPS from the current request perspective only
	isHTTPS := c.Request != nil && (c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https"))

	cookie := &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1, // Delete cookie
	}

	http.SetCookie(c.Writer, cookie)
}
