package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kotoba-school/kotoba/internal/models"
)

const (
	query_InsertSession = `INSERT INTO sessions (id, user_id, login, profile_name, email, subscription_id, display_name, avatar_url, created_at, expires_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	query_GetSession = `SELECT id, user_id, login, profile_name, email, subscription_id, display_name, avatar_url, created_at, expires_at
	FROM sessions WHERE id = ? AND expires_at > ?`

	query_ExtendSession = `UPDATE sessions SET expires_at = ? WHERE id = ?`

	query_DeleteSession = `DELETE FROM sessions WHERE id = ?`

	query_DeleteExpiredSessions = `DELETE FROM sessions WHERE expires_at <= ?`
)

// GenerateSecureSessionID creates a cryptographically random 64-char hex ID
func GenerateSecureSessionID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// InsertSession stores a new session with a snapshot of the user's
// display fields so page renders don't need a users join.
func (db *Database) InsertSession(session *models.Session) error {
	var subscriptionID interface{}
	if session.User.SubscriptionID != "" {
		subscriptionID = session.User.SubscriptionID
	}
	_, err := retryableExec(db.mainDB, query_InsertSession,
		session.ID, session.UserID,
		session.User.Login, session.User.ProfileName, session.User.Email,
		subscriptionID, session.User.DisplayName, session.User.AvatarURL,
		session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// ValidateSession looks up an unexpired session and extends its expiry
// by the given lifetime (sliding window). Returns
// models.ErrSessionNotFound for unknown or expired IDs.
func (db *Database) ValidateSession(sessionID string, lifetime time.Duration) (*models.Session, error) {
	now := time.Now().UTC()

	var session models.Session
	var subscriptionID sql.NullString
	row := db.mainDB.QueryRow(query_GetSession, sessionID, now)
	err := row.Scan(&session.ID, &session.UserID,
		&session.User.Login, &session.User.ProfileName, &session.User.Email,
		&subscriptionID, &session.User.DisplayName, &session.User.AvatarURL,
		&session.CreatedAt, &session.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	session.User.ID = session.UserID
	if subscriptionID.Valid {
		session.User.SubscriptionID = subscriptionID.String
	}

	newExpiry := now.Add(lifetime)
	if _, err := retryableExec(db.mainDB, query_ExtendSession, newExpiry, sessionID); err != nil {
		return nil, fmt.Errorf("failed to extend session: %w", err)
	}
	session.ExpiresAt = newExpiry

	return &session, nil
}

// DeleteSession removes a session by ID. Deleting a missing session is not
// an error.
func (db *Database) DeleteSession(sessionID string) error {
	if _, err := retryableExec(db.mainDB, query_DeleteSession, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes all sessions past their expiry and
// returns how many were deleted.
func (db *Database) CleanupExpiredSessions() (int64, error) {
	result, err := retryableExec(db.mainDB, query_DeleteExpiredSessions, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, nil
}
