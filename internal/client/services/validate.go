package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/meetscribe/internal/common"
)

// Input limits checked before any network call.
const (
	MinNameLength     = 2
	MinPasswordLength = 6
)

// Form field names used in validation errors.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

// ValidateRegistration checks the registration form. With credentialed set the
// last name and the password are mandatory; otherwise the password is only
// checked when given.
func ValidateRegistration(in RegisterInput, credentialed bool) error {
	verr := &common.ValidationError{}

	if utf8.RuneCountInString(strings.TrimSpace(in.FirstName)) < MinNameLength {
		verr.Add(FieldFirstName, "must be at least 2 characters")
	}
	if credentialed && utf8.RuneCountInString(strings.TrimSpace(in.LastName)) < MinNameLength {
		verr.Add(FieldLastName, "must be at least 2 characters")
	}
	if !validEmail(strings.TrimSpace(in.Email)) {
		verr.Add(FieldEmail, "is not a valid email address")
	}

	if credentialed || len(in.Password) > 0 || len(in.ConfirmPassword) > 0 {
		if utf8.RuneCount(in.Password) < MinPasswordLength {
			verr.Add(FieldPassword, "must be at least 6 characters")
		}
		if string(in.Password) != string(in.ConfirmPassword) {
			verr.Add(FieldConfirmPassword, "does not match")
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// ValidateLogin checks the login form.
func ValidateLogin(in LoginInput, credentialed bool) error {
	verr := &common.ValidationError{}
	if !validEmail(strings.TrimSpace(in.Email)) {
		verr.Add(FieldEmail, "is not a valid email address")
	}
	if credentialed && len(in.Password) == 0 {
		verr.Add(FieldPassword, "is required")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
