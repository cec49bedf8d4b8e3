package registration

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// Validation messages. Kept as constants so the TUI and tests agree on them.
const (
	MsgUsernameRequired  = "Username is required"
	MsgUsernameTooShort  = "Username must be at least 3 characters"
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Email format is not valid"
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgPasswordRequired  = "Password is required"
	MsgPasswordTooShort  = "Password must be at least 6 characters"
	MsgConfirmRequired   = "Confirm your password"
	MsgPasswordMismatch  = "Passwords do not match"
)

// Loose text@text.text shape. Not RFC 5322; the server does the real check.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Validate checks every field independently and returns all failures at
// once. It is pure: the same Fields always give the same result.
func Validate(f Fields) ValidationErrors {
	var errs ValidationErrors

	switch {
	case strings.TrimSpace(f.Username) == "":
		errs.Username = MsgUsernameRequired
	case utf8.RuneCountInString(f.Username) < minUsernameLen:
		errs.Username = MsgUsernameTooShort
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs.Email = MsgEmailRequired
	case !emailPattern.MatchString(f.Email):
		errs.Email = MsgEmailInvalid
	}

	if strings.TrimSpace(f.FirstName) == "" {
		errs.FirstName = MsgFirstNameRequired
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs.LastName = MsgLastNameRequired
	}

	// Passwords are not trimmed: whitespace is a legal password character.
	switch {
	case f.Password == "":
		errs.Password = MsgPasswordRequired
	case utf8.RuneCountInString(f.Password) < minPasswordLen:
		errs.Password = MsgPasswordTooShort
	}

	switch {
	case f.Password2 == "":
		errs.Password2 = MsgConfirmRequired
	case f.Password != f.Password2:
		errs.Password2 = MsgPasswordMismatch
	}

	return errs
}
