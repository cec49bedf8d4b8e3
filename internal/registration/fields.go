// Package registration holds the account registration form: its fields,
// the validator, and the submit state machine.
//
// The UI layers (the bubbletea form and the one-shot CLI) never mutate form
// state directly. They feed events into Reduce and act on the Effect it
// returns, so the whole workflow can be tested without a terminal.
package registration

import "fmt"

// FieldName identifies one of the six form inputs.
type FieldName int

const (
	FieldUsername FieldName = iota
	FieldEmail
	FieldPassword
	FieldPassword2
	FieldFirstName
	FieldLastName
)

// AllFields lists the inputs in display order of the original screen
// (names first, then credentials).
var AllFields = []FieldName{
	FieldFirstName,
	FieldLastName,
	FieldUsername,
	FieldEmail,
	FieldPassword,
	FieldPassword2,
}

var fieldKeys = map[FieldName]string{
	FieldUsername:  "username",
	FieldEmail:     "email",
	FieldPassword:  "password",
	FieldPassword2: "password2",
	FieldFirstName: "first_name",
	FieldLastName:  "last_name",
}

// String returns the wire key (e.g. "first_name").
func (f FieldName) String() string {
	if k, ok := fieldKeys[f]; ok {
		return k
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Label returns the human label shown next to the input.
func (f FieldName) Label() string {
	switch f {
	case FieldUsername:
		return "Username"
	case FieldEmail:
		return "Email"
	case FieldPassword:
		return "Password"
	case FieldPassword2:
		return "Confirm password"
	case FieldFirstName:
		return "First name"
	case FieldLastName:
		return "Last name"
	}
	return f.String()
}

// Secret reports whether the input should be masked.
func (f FieldName) Secret() bool {
	return f == FieldPassword || f == FieldPassword2
}

// ParseFieldName maps a wire key back to a FieldName.
func ParseFieldName(key string) (FieldName, error) {
	for f, k := range fieldKeys {
		if k == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown form field %q", key)
}

// Fields is the registration payload. The JSON tags match the body expected
// by the auth service.
type Fields struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Get returns the value of one field.
func (f Fields) Get(name FieldName) string {
	switch name {
	case FieldUsername:
		return f.Username
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldPassword2:
		return f.Password2
	case FieldFirstName:
		return f.FirstName
	case FieldLastName:
		return f.LastName
	}
	return ""
}

// Set returns a copy of f with one field replaced.
func (f Fields) Set(name FieldName, value string) Fields {
	switch name {
	case FieldUsername:
		f.Username = value
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldPassword2:
		f.Password2 = value
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	}
	return f
}

// ValidationErrors carries one message per field. An empty string means the
// field is valid.
type ValidationErrors struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

// Empty reports whether every field passed validation.
func (e ValidationErrors) Empty() bool {
	return e == ValidationErrors{}
}

// Get returns the message for one field.
func (e ValidationErrors) Get(name FieldName) string {
	switch name {
	case FieldUsername:
		return e.Username
	case FieldEmail:
		return e.Email
	case FieldPassword:
		return e.Password
	case FieldPassword2:
		return e.Password2
	case FieldFirstName:
		return e.FirstName
	case FieldLastName:
		return e.LastName
	}
	return ""
}

// Clear returns a copy of e with the message for name removed.
func (e ValidationErrors) Clear(name FieldName) ValidationErrors {
	switch name {
	case FieldUsername:
		e.Username = ""
	case FieldEmail:
		e.Email = ""
	case FieldPassword:
		e.Password = ""
	case FieldPassword2:
		e.Password2 = ""
	case FieldFirstName:
		e.FirstName = ""
	case FieldLastName:
		e.LastName = ""
	}
	return e
}

// Invalid lists the fields carrying a message, in display order.
func (e ValidationErrors) Invalid() []FieldName {
	var out []FieldName
	for _, f := range AllFields {
		if e.Get(f) != "" {
			out = append(out, f)
		}
	}
	return out
}
