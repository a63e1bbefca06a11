package database

import (
	"errors"
	"testing"
	"time"

	"github.com/kotoba-school/kotoba/internal/models"
)

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	cfg := DefaultDBConfig()
	cfg.DataDir = t.TempDir()
	db, err := OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Shutdown(); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	})
	return db
}

func TestMigrationsSeedCourses(t *testing.T) {
	db := openTestDatabase(t)

	courses, err := db.GetCoursesOrdered()
	if err != nil {
		t.Fatalf("GetCoursesOrdered failed: %v", err)
	}
	if len(courses) != 5 {
		t.Fatalf("expected 5 seeded courses, got %d", len(courses))
	}

	wantOrder := []string{"N5", "N4", "N3", "N2", "N1"}
	for i, course := range courses {
		if course.LevelCode != wantOrder[i] {
			t.Errorf("course %d: expected level %s, got %s", i, wantOrder[i], course.LevelCode)
		}
	}

	lessons, err := db.GetLessonsOrdered()
	if err != nil {
		t.Fatalf("GetLessonsOrdered failed: %v", err)
	}
	if len(lessons) == 0 {
		t.Fatal("expected seeded lessons, got none")
	}

	// Lessons arrive grouped by course with ascending numbers inside a group
	lastCourse := int64(-1)
	lastNumber := 0
	for _, lesson := range lessons {
		if lesson.CourseID != lastCourse {
			lastCourse = lesson.CourseID
			lastNumber = 0
		}
		if lesson.LessonNumber <= lastNumber {
			t.Fatalf("lesson ordering broken: course %d number %d after %d",
				lesson.CourseID, lesson.LessonNumber, lastNumber)
		}
		lastNumber = lesson.LessonNumber
	}
}

func TestInsertAndFindUser(t *testing.T) {
	db := openTestDatabase(t)

	user, err := db.InsertUser("yuki", "Yuki Tanaka", "yuki@example.com", "digest")
	if err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected non-zero user ID")
	}
	if user.IsAdmin {
		t.Error("new users must not be admins")
	}

	byLogin, err := db.GetUserByLoginOrEmail("yuki")
	if err != nil {
		t.Fatalf("lookup by login failed: %v", err)
	}
	if byLogin.ID != user.ID {
		t.Errorf("lookup by login returned user %d, want %d", byLogin.ID, user.ID)
	}

	byEmail, err := db.GetUserByLoginOrEmail("yuki@example.com")
	if err != nil {
		t.Fatalf("lookup by email failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("lookup by email returned user %d, want %d", byEmail.ID, user.ID)
	}

	if _, err := db.GetUserByLoginOrEmail("nobody"); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown identifier, got %v", err)
	}
}

func TestInsertUserDuplicate(t *testing.T) {
	db := openTestDatabase(t)

	if _, err := db.InsertUser("yuki", "Yuki", "yuki@example.com", "digest"); err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}

	// Same login, different email
	if _, err := db.InsertUser("yuki", "Other", "other@example.com", "digest"); !errors.Is(err, models.ErrUserExists) {
		t.Errorf("expected ErrUserExists for duplicate login, got %v", err)
	}

	// Same email, different login
	if _, err := db.InsertUser("other", "Other", "yuki@example.com", "digest"); !errors.Is(err, models.ErrUserExists) {
		t.Errorf("expected ErrUserExists for duplicate email, got %v", err)
	}

	exists, err := db.UserExists("yuki", "nothere@example.com")
	if err != nil {
		t.Fatalf("UserExists failed: %v", err)
	}
	if !exists {
		t.Error("UserExists should report true for taken login")
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDatabase(t)

	user, err := db.InsertUser("yuki", "Yuki Tanaka", "yuki@example.com", "digest")
	if err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}

	sessionID, err := GenerateSecureSessionID()
	if err != nil {
		t.Fatalf("GenerateSecureSessionID failed: %v", err)
	}
	if len(sessionID) != 64 {
		t.Errorf("expected 64-char session ID, got %d chars", len(sessionID))
	}

	now := time.Now().UTC()
	session := &models.Session{
		ID:     sessionID,
		UserID: user.ID,
		User: models.SessionUser{
			ID:          user.ID,
			Login:       user.Login,
			ProfileName: user.ProfileName,
			Email:       user.Email,
			DisplayName: user.DisplayName(),
			AvatarURL:   "/static/img/avatar-default.svg",
		},
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	if err := db.InsertSession(session); err != nil {
		t.Fatalf("InsertSession failed: %v", err)
	}

	got, err := db.ValidateSession(sessionID, 24*time.Hour)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if got.User.Login != "yuki" {
		t.Errorf("session snapshot login = %q, want yuki", got.User.Login)
	}
	if got.User.DisplayName != "Yuki Tanaka" {
		t.Errorf("session snapshot display name = %q", got.User.DisplayName)
	}
	if !got.ExpiresAt.After(session.ExpiresAt.Add(-time.Minute)) {
		t.Error("ValidateSession should extend the expiry window")
	}

	if err := db.DeleteSession(sessionID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := db.ValidateSession(sessionID, 24*time.Hour); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestExpiredSessionCleanup(t *testing.T) {
	db := openTestDatabase(t)

	user, err := db.InsertUser("yuki", "Yuki", "yuki@example.com", "digest")
	if err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}

	sessionID, _ := GenerateSecureSessionID()
	session := &models.Session{
		ID:     sessionID,
		UserID: user.ID,
		User: models.SessionUser{
			ID: user.ID, Login: user.Login, ProfileName: user.ProfileName,
			Email: user.Email, DisplayName: user.DisplayName(), AvatarURL: "x",
		},
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-24 * time.Hour),
	}
	if err := db.InsertSession(session); err != nil {
		t.Fatalf("InsertSession failed: %v", err)
	}

	if _, err := db.ValidateSession(sessionID, 24*time.Hour); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for expired session, got %v", err)
	}

	deleted, err := db.CleanupExpiredSessions()
	if err != nil {
		t.Fatalf("CleanupExpiredSessions failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 session cleaned up, got %d", deleted)
	}
}

func TestConfigValues(t *testing.T) {
	db := openTestDatabase(t)

	if !db.IsRegistrationEnabled() {
		t.Error("registration should default to enabled")
	}

	if err := db.SetConfigBool("registration_enabled", false); err != nil {
		t.Fatalf("SetConfigBool failed: %v", err)
	}
	if db.IsRegistrationEnabled() {
		t.Error("registration should be disabled after SetConfigBool(false)")
	}

	value, err := db.GetConfigValue("missing_key")
	if err != nil {
		t.Fatalf("GetConfigValue failed: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value for missing key, got %q", value)
	}
}
