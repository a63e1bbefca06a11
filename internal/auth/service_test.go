package auth

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotoba-school/kotoba/internal/models"
)

// fakeUserStore keeps users in memory and mimics the unique constraints
// of the real store.
type fakeUserStore struct {
	users      []*models.User
	nextID     int64
	failLookup error
	failInsert error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1}
}

func (s *fakeUserStore) GetUserByLoginOrEmail(identifier string) (*models.User, error) {
	if s.failLookup != nil {
		return nil, s.failLookup
	}
	for _, u := range s.users {
		if u.Login == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *fakeUserStore) UserExists(login, email string) (bool, error) {
	for _, u := range s.users {
		if u.Login == login || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) InsertUser(login, profileName, email, passwordHash string) (*models.User, error) {
	if s.failInsert != nil {
		return nil, s.failInsert
	}
	for _, u := range s.users {
		if u.Login == login || u.Email == email {
			return nil, models.ErrUserExists
		}
	}
	user := &models.User{
		ID: s.nextID, Login: login, ProfileName: profileName,
		Email: email, PasswordHash: passwordHash,
	}
	s.nextID++
	s.users = append(s.users, user)
	return user, nil
}

func newTestService() (*Service, *fakeUserStore) {
	store := newFakeUserStore()
	return NewService(store, &SHA256Hasher{}), store
}

func validForm() RegisterForm {
	return RegisterForm{
		Login:           "yuki",
		ProfileName:     "Yuki Tanaka",
		Email:           "yuki@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	}
}

func TestRegisterUserSuccess(t *testing.T) {
	svc, store := newTestService()

	result := svc.RegisterUser(validForm())

	assert.True(t, result.Success)
	assert.Equal(t, http.StatusCreated, result.Status)
	assert.Empty(t, result.Errors)
	assert.Equal(t, MsgRegisterSuccess, result.Message)

	require.Len(t, store.users, 1)
	stored := store.users[0]
	assert.Equal(t, "yuki", stored.Login)
	assert.NotEqual(t, "secret123", stored.PasswordHash, "password must be stored hashed")
	assert.Len(t, stored.PasswordHash, 64)
}

func TestRegisterUserCollectsAllViolations(t *testing.T) {
	svc, store := newTestService()

	result := svc.RegisterUser(RegisterForm{
		Login:           "ab",
		ProfileName:     "A",
		Email:           "bad",
		Password:        "12345",
		PasswordConfirm: "",
	})

	assert.False(t, result.Success)
	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Equal(t, []string{
		MsgLoginTooShort,
		MsgProfileNameTooShort,
		MsgEmailInvalid,
		MsgPasswordTooShort,
		MsgConfirmRequired,
	}, result.Errors, "all violations reported in field order")
	assert.Empty(t, result.Message)
	assert.Empty(t, store.users, "invalid form must not create a user")

	// Submitted identity fields come back for the form re-render
	assert.Equal(t, "ab", result.Form.Login)
	assert.Equal(t, "A", result.Form.ProfileName)
	assert.Equal(t, "bad", result.Form.Email)
	assert.Empty(t, result.Form.Password, "passwords are never echoed")
}

func TestRegisterUserPasswordMismatch(t *testing.T) {
	svc, _ := newTestService()

	form := validForm()
	form.PasswordConfirm = "different"
	result := svc.RegisterUser(form)

	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Equal(t, []string{MsgPasswordsMismatch}, result.Errors)
}

func TestRegisterUserTrimsFields(t *testing.T) {
	svc, store := newTestService()

	form := validForm()
	form.Login = "  yuki  "
	form.Email = " yuki@example.com "
	result := svc.RegisterUser(form)

	require.True(t, result.Success)
	assert.Equal(t, "yuki", store.users[0].Login)
	assert.Equal(t, "yuki@example.com", store.users[0].Email)
}

func TestRegisterUserDuplicate(t *testing.T) {
	svc, _ := newTestService()
	require.True(t, svc.RegisterUser(validForm()).Success)

	// Same login, fresh email
	form := validForm()
	form.Email = "other@example.com"
	result := svc.RegisterUser(form)
	assert.Equal(t, http.StatusConflict, result.Status)
	assert.Equal(t, []string{MsgUserExists}, result.Errors)

	// Same email, fresh login
	form = validForm()
	form.Login = "other"
	result = svc.RegisterUser(form)
	assert.Equal(t, http.StatusConflict, result.Status)
	assert.Equal(t, []string{MsgUserExists}, result.Errors)
}

func TestRegisterUserInsertRaceReportsConflict(t *testing.T) {
	svc, store := newTestService()
	store.failInsert = models.ErrUserExists

	result := svc.RegisterUser(validForm())
	assert.Equal(t, http.StatusConflict, result.Status)
	assert.Equal(t, []string{MsgUserExists}, result.Errors)
}

func TestRegisterUserStoreFailure(t *testing.T) {
	svc, store := newTestService()
	store.failInsert = errors.New("disk full")

	result := svc.RegisterUser(validForm())
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.Equal(t, []string{MsgRegisterInternal}, result.Errors)
}

func TestRegisterResultSuccessXorErrors(t *testing.T) {
	svc, _ := newTestService()

	cases := []RegisterForm{
		validForm(),
		{Login: "x"},
		{},
	}
	for _, form := range cases {
		result := svc.RegisterUser(form)
		if result.Success {
			assert.Empty(t, result.Errors)
			assert.NotEmpty(t, result.Message)
		} else {
			assert.NotEmpty(t, result.Errors)
			assert.Empty(t, result.Message)
		}
	}
}

func TestLoginUserSuccess(t *testing.T) {
	svc, _ := newTestService()
	require.True(t, svc.RegisterUser(validForm()).Success)

	result := svc.LoginUser("yuki", "secret123")

	assert.True(t, result.Success)
	assert.Equal(t, http.StatusOK, result.Status)
	require.NotNil(t, result.User)
	assert.Equal(t, "yuki", result.User.Login)
	assert.Equal(t, "Yuki Tanaka", result.User.DisplayName)
	assert.True(t, strings.Contains(result.Message, "Yuki Tanaka"), "welcome flash names the user")

	// Email works as identifier too
	byEmail := svc.LoginUser("yuki@example.com", "secret123")
	assert.True(t, byEmail.Success)
	assert.Equal(t, result.User.ID, byEmail.User.ID)
}

func TestLoginUserDisplayNameFallsBackToLogin(t *testing.T) {
	svc, store := newTestService()
	digest, _ := (&SHA256Hasher{}).Hash("secret123")
	store.users = append(store.users, &models.User{
		ID: 7, Login: "kenji", ProfileName: "", Email: "kenji@example.com", PasswordHash: digest,
	})

	result := svc.LoginUser("kenji", "secret123")
	require.True(t, result.Success)
	assert.Equal(t, "kenji", result.User.DisplayName)
}

func TestLoginUserMissingFields(t *testing.T) {
	svc, _ := newTestService()

	result := svc.LoginUser("", "")
	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Equal(t, []string{MsgIdentifierRequired, MsgPasswordRequired}, result.Errors)

	result = svc.LoginUser("yuki", "")
	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Equal(t, []string{MsgPasswordRequired}, result.Errors)
}

func TestLoginUserUnknownAccount(t *testing.T) {
	svc, _ := newTestService()

	result := svc.LoginUser("nobody", "secret123")
	assert.Equal(t, http.StatusNotFound, result.Status)
	assert.Equal(t, []string{MsgAccountNotFound}, result.Errors)
	assert.Nil(t, result.User)
}

func TestLoginUserWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	require.True(t, svc.RegisterUser(validForm()).Success)

	result := svc.LoginUser("yuki", "wrongpass")
	assert.Equal(t, http.StatusUnauthorized, result.Status)
	assert.Equal(t, []string{MsgWrongPassword}, result.Errors)
	assert.Nil(t, result.User)
}

func TestLoginUserStoreFailure(t *testing.T) {
	svc, store := newTestService()
	store.failLookup = errors.New("connection lost")

	result := svc.LoginUser("yuki", "secret123")
	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.Equal(t, []string{MsgLoginInternal}, result.Errors)
}
