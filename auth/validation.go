package auth

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Credentials are the login form fields.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// PasswordPolicy rejects a password before it is sent to the API.
type PasswordPolicy func(password string) error

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// validateCredentials checks presence and format, then the password policy.
func validateCredentials(creds Credentials, policy PasswordPolicy) error {
	if err := engine().Struct(creds); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			return &InputError{Field: "Credentials", Message: "Invalid request"}
		}
		fe := verrs[0]
		switch fe.Field() {
		case "Email":
			if fe.Tag() == "email" {
				return &InputError{Field: "Email", Message: "Invalid email address"}
			}
			return &InputError{Field: "Email", Message: "Email is required"}
		default:
			return &InputError{Field: "Password", Message: "Password is required"}
		}
	}

	if policy != nil {
		if err := policy(creds.Password); err != nil {
			return &InputError{Field: "Password", Message: sentence(err.Error())}
		}
	}
	return nil
}

func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.TrimSpace(s[size:])
}
