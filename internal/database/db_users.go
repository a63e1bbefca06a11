package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kotoba-school/kotoba/internal/models"
	"github.com/mattn/go-sqlite3"
)

const (
	query_GetUserByLoginOrEmail = `SELECT id, login, profile_name, email, password_hash, subscription_id, is_admin, created_at, updated_at
	FROM users WHERE login = ? OR email = ? LIMIT 1`

	query_GetUserByID = `SELECT id, login, profile_name, email, password_hash, subscription_id, is_admin, created_at, updated_at
	FROM users WHERE id = ?`

	query_GetUserByLogin = `SELECT id, login, profile_name, email, password_hash, subscription_id, is_admin, created_at, updated_at
	FROM users WHERE login = ?`

	query_ListUsers = `SELECT id, login, profile_name, email, password_hash, subscription_id, is_admin, created_at, updated_at
	FROM users ORDER BY id`

	query_UserExists = `SELECT COUNT(*) FROM users WHERE login = ? OR email = ?`

	query_InsertUser = `INSERT INTO users (login, profile_name, email, password_hash, is_admin, created_at, updated_at)
	VALUES (?, ?, ?, ?, 0, ?, ?)`

	query_UpdateUserPassword = `UPDATE users SET password_hash = ?, updated_at = ? WHERE login = ?`

	query_SetUserAdmin = `UPDATE users SET is_admin = ?, updated_at = ? WHERE login = ?`

	query_DeleteUser = `DELETE FROM users WHERE login = ?`
)

// scanUser scans a user row into a models.User
func scanUser(scan func(dest ...interface{}) error) (*models.User, error) {
	var u models.User
	var subscriptionID sql.NullString
	err := scan(&u.ID, &u.Login, &u.ProfileName, &u.Email, &u.PasswordHash,
		&subscriptionID, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if subscriptionID.Valid {
		u.SubscriptionID = subscriptionID.String
	}
	return &u, nil
}

// GetUserByLoginOrEmail finds the first user whose login or email matches
// the given identifier. Returns models.ErrUserNotFound when no row matches.
func (db *Database) GetUserByLoginOrEmail(identifier string) (*models.User, error) {
	row := db.mainDB.QueryRow(query_GetUserByLoginOrEmail, identifier, identifier)
	user, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by login or email: %w", err)
	}
	return user, nil
}

// GetUserByID fetches a user by primary key
func (db *Database) GetUserByID(id int64) (*models.User, error) {
	row := db.mainDB.QueryRow(query_GetUserByID, id)
	user, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	return user, nil
}

// GetUserByLogin fetches a user by exact login
func (db *Database) GetUserByLogin(login string) (*models.User, error) {
	row := db.mainDB.QueryRow(query_GetUserByLogin, login)
	user, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by login: %w", err)
	}
	return user, nil
}

// ListUsers returns all users ordered by id
func (db *Database) ListUsers() ([]*models.User, error) {
	rows, err := retryableQuery(db.mainDB, query_ListUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UserExists reports whether any user already holds the login or the email
func (db *Database) UserExists(login, email string) (bool, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB, query_UserExists,
		[]interface{}{login, email}, &count)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// InsertUser creates a new non-admin user. A UNIQUE constraint violation on
// login or email is reported as models.ErrUserExists so concurrent
// registrations cannot slip past the existence pre-check.
func (db *Database) InsertUser(login, profileName, email, passwordHash string) (*models.User, error) {
	now := time.Now().UTC()
	result, err := retryableExec(db.mainDB, query_InsertUser,
		login, profileName, email, passwordHash, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, models.ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted user id: %w", err)
	}

	return &models.User{
		ID:           id,
		Login:        login,
		ProfileName:  profileName,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateUserPassword replaces the stored password hash for a login
func (db *Database) UpdateUserPassword(login, passwordHash string) error {
	result, err := retryableExec(db.mainDB, query_UpdateUserPassword,
		passwordHash, time.Now().UTC(), login)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// SetUserAdmin toggles the admin flag for a login
func (db *Database) SetUserAdmin(login string, isAdmin bool) error {
	result, err := retryableExec(db.mainDB, query_SetUserAdmin,
		isAdmin, time.Now().UTC(), login)
	if err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user and, via foreign key cascade, their sessions
func (db *Database) DeleteUser(login string) error {
	result, err := retryableExec(db.mainDB, query_DeleteUser, login)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// isUniqueConstraintError detects SQLite UNIQUE violations
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
