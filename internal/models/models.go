// Package models defines core data structures for kotoba
package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID             int64     `json:"id" db:"id"`
	Login          string    `json:"login" db:"login"`
	ProfileName    string    `json:"profileName" db:"profile_name"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	SubscriptionID string    `json:"subscriptionId,omitempty" db:"subscription_id"` // empty = none, max 32 chars
	IsAdmin        bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the profile name, falling back to the login
func (u *User) DisplayName() string {
	if u.ProfileName != "" {
		return u.ProfileName
	}
	return u.Login
}

// SessionUser is the denormalized user snapshot carried by a session
type SessionUser struct {
	ID             int64  `json:"id"`
	Login          string `json:"login"`
	ProfileName    string `json:"profileName"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
	Email          string `json:"email"`
	DisplayName    string `json:"displayName"`
	AvatarURL      string `json:"avatarUrl"`
}

// Session represents a server-side user session referenced by cookie
type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	User      SessionUser
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// Course represents a proficiency level (e.g. N5) with its lessons
type Course struct {
	ID           int64     `json:"id" db:"id"`
	LevelCode    string    `json:"levelCode" db:"level_code"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	DisplayOrder int       `json:"-" db:"display_order"`
	Lessons      []*Lesson `json:"lessons"`
}

// Lesson is an ordered unit of content within a course
type Lesson struct {
	ID           int64  `json:"-" db:"id"`
	CourseID     int64  `json:"-" db:"course_id"`
	LessonNumber int    `json:"lessonNumber" db:"lesson_number"`
	Title        string `json:"title" db:"title"`
	Summary      string `json:"summary" db:"summary"`
}
