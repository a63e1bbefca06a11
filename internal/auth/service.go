package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/kotoba-school/kotoba/internal/config"
	"github.com/kotoba-school/kotoba/internal/models"
)

// UserStore is the persistence surface the auth service needs. The
// database package implements it.
type UserStore interface {
	GetUserByLoginOrEmail(identifier string) (*models.User, error)
	UserExists(login, email string) (bool, error)
	InsertUser(login, profileName, email, passwordHash string) (*models.User, error)
}

// Service handles registration and login on top of a UserStore
type Service struct {
	store  UserStore
	hasher Hasher
}

// NewService builds an auth service with the given store and hasher
func NewService(store UserStore, hasher Hasher) *Service {
	return &Service{store: store, hasher: hasher}
}

// RegisterResult is the outcome envelope of a registration attempt.
// Exactly one of Errors and Message is populated.
type RegisterResult struct {
	Success bool
	Status  int
	Form    RegisterForm
	Errors  []string
	Message string
}

// LoginResult is the outcome envelope of a login attempt
type LoginResult struct {
	Success bool
	Status  int
	Errors  []string
	User    *models.SessionUser
	Message string
}

// RegisterUser validates the form, checks for a taken login or email and
// creates the account. Validation failures report every violation at
// once. The password never leaves the service unhashed.
func (s *Service) RegisterUser(form RegisterForm) *RegisterResult {
	form = form.Trimmed()
	echo := RegisterForm{Login: form.Login, ProfileName: form.ProfileName, Email: form.Email}

	if errs := validateRegisterForm(form); len(errs) > 0 {
		return &RegisterResult{Status: http.StatusBadRequest, Form: echo, Errors: errs}
	}

	exists, err := s.store.UserExists(form.Login, form.Email)
	if err != nil {
		log.Printf("[AUTH] existence check failed for %s: %v", form.Login, err)
		return &RegisterResult{Status: http.StatusInternalServerError, Form: echo, Errors: []string{MsgRegisterInternal}}
	}
	if exists {
		return &RegisterResult{Status: http.StatusConflict, Form: echo, Errors: []string{MsgUserExists}}
	}

	digest, err := s.hasher.Hash(form.Password)
	if err != nil {
		log.Printf("[AUTH] password hashing failed for %s: %v", form.Login, err)
		return &RegisterResult{Status: http.StatusInternalServerError, Form: echo, Errors: []string{MsgRegisterInternal}}
	}

	if _, err := s.store.InsertUser(form.Login, form.ProfileName, form.Email, digest); err != nil {
		// A concurrent registration can win the race between the
		// existence check and the insert. The unique constraint
		// reports it as a conflict, not a server error.
		if errors.Is(err, models.ErrUserExists) {
			return &RegisterResult{Status: http.StatusConflict, Form: echo, Errors: []string{MsgUserExists}}
		}
		log.Printf("[AUTH] failed to create user %s: %v", form.Login, err)
		return &RegisterResult{Status: http.StatusInternalServerError, Form: echo, Errors: []string{MsgRegisterInternal}}
	}

	log.Printf("[AUTH] new user registered: %s", form.Login)
	return &RegisterResult{Success: true, Status: http.StatusCreated, Message: MsgRegisterSuccess}
}

// LoginUser checks an identifier (login or email) and password against
// the store and returns the session-ready user snapshot on success.
func (s *Service) LoginUser(identifier, password string) *LoginResult {
	identifier = strings.TrimSpace(identifier)

	if errs := validateLoginInput(identifier, password); len(errs) > 0 {
		return &LoginResult{Status: http.StatusBadRequest, Errors: errs}
	}

	user, err := s.store.GetUserByLoginOrEmail(identifier)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return &LoginResult{Status: http.StatusNotFound, Errors: []string{MsgAccountNotFound}}
		}
		log.Printf("[AUTH] user lookup failed for %s: %v", identifier, err)
		return &LoginResult{Status: http.StatusInternalServerError, Errors: []string{MsgLoginInternal}}
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return &LoginResult{Status: http.StatusUnauthorized, Errors: []string{MsgWrongPassword}}
	}

	snapshot := &models.SessionUser{
		ID:             user.ID,
		Login:          user.Login,
		ProfileName:    user.ProfileName,
		SubscriptionID: user.SubscriptionID,
		Email:          user.Email,
		DisplayName:    user.DisplayName(),
		AvatarURL:      config.DefaultAvatarURL,
	}

	log.Printf("[AUTH] user logged in: %s", user.Login)
	return &LoginResult{
		Success: true,
		Status:  http.StatusOK,
		User:    snapshot,
		Message: WelcomeMessage(snapshot.DisplayName),
	}
}
