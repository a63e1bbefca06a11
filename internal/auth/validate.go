package auth

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterForm carries the submitted registration fields. Login, profile
// name and email are echoed back to the page on validation failure so
// the visitor doesn't retype them.
type RegisterForm struct {
	Login           string `form:"login" json:"login"`
	ProfileName     string `form:"profileName" json:"profileName"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"-"`
	PasswordConfirm string `form:"passwordConfirm" json:"-"`
}

// Trimmed returns a copy with surrounding whitespace stripped from the
// identity fields. Passwords are taken verbatim.
func (f RegisterForm) Trimmed() RegisterForm {
	f.Login = strings.TrimSpace(f.Login)
	f.ProfileName = strings.TrimSpace(f.ProfileName)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

// validateRegisterForm collects every violation in field order, so the
// visitor sees the full list at once instead of fixing one at a time.
func validateRegisterForm(form RegisterForm) []string {
	var errs []string

	if len([]rune(form.Login)) < 3 {
		errs = append(errs, MsgLoginTooShort)
	}
	if len([]rune(form.ProfileName)) < 2 {
		errs = append(errs, MsgProfileNameTooShort)
	}
	if form.Email == "" {
		errs = append(errs, MsgEmailRequired)
	} else if !emailRegex.MatchString(form.Email) {
		errs = append(errs, MsgEmailInvalid)
	}
	if len([]rune(form.Password)) < 6 {
		errs = append(errs, MsgPasswordTooShort)
	}
	if form.PasswordConfirm == "" {
		errs = append(errs, MsgConfirmRequired)
	} else if form.Password != form.PasswordConfirm {
		errs = append(errs, MsgPasswordsMismatch)
	}

	return errs
}

// validateLoginInput checks the two login fields are present
func validateLoginInput(identifier, password string) []string {
	var errs []string
	if strings.TrimSpace(identifier) == "" {
		errs = append(errs, MsgIdentifierRequired)
	}
	if password == "" {
		errs = append(errs, MsgPasswordRequired)
	}
	return errs
}
