package web

import (
	"log"
	"time"
)

// StartSessionCleanup launches a background goroutine that sweeps
// expired sessions from the database every interval.
func (s *WebServer) StartSessionCleanup(interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			deleted, err := s.DB.CleanupExpiredSessions()
			if err != nil {
				log.Printf("[WEB] session cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("[WEB] cleaned up %d expired sessions", deleted)
			}
		}
	}()
}
