package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

// Ограничения полей учётной записи.
const (
	PasswordMinLen = 5
	NameMaxLen     = 255
	EmailMaxLen    = 255
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// normalizeEmail — email храним и ищем в нижнем регистре без пробелов по краям.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(verr *serr.ValidationError, email string) {
	switch {
	case email == "":
		verr.Add("email", serr.CodeRequired)
	case utf8.RuneCountInString(email) > EmailMaxLen:
		verr.Add("email", serr.CodeTooLong)
	case !emailRe.MatchString(email):
		verr.Add("email", serr.CodeInvalidFormat)
	}
}

// validatePassword — пароль не триммится, минимум считается в символах.
// maxBytes — предел активного хэшера в байтах (0 — без предела).
func validatePassword(verr *serr.ValidationError, password string, maxBytes int) {
	switch {
	case password == "":
		verr.Add("password", serr.CodeRequired)
	case utf8.RuneCountInString(password) < PasswordMinLen:
		verr.Add("password", serr.CodeTooShort)
	case maxBytes > 0 && len(password) > maxBytes:
		verr.Add("password", serr.CodeTooLong)
	}
}

func validateName(verr *serr.ValidationError, name string) {
	if utf8.RuneCountInString(name) > NameMaxLen {
		verr.Add("name", serr.CodeTooLong)
	}
}
