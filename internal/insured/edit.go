package insured

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
	MaxNameLength     = 50
)

// EditRequest is the self-service edit payload as received from a client.
// A nil Name leaves the name untouched.
type EditRequest struct {
	Name                 *string `json:"name"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
}

// EditIntent lists the mutable fields an edit will change; nil means unchanged.
type EditIntent struct {
	Name     *string
	Password *string
}

// Validate applies the password confirmation protocol:
//
//	both password fields empty   -> no password change
//	exactly one of them set      -> ErrBothPasswordFieldsRequired
//	both set but different       -> ErrPasswordConfirmationMismatch
//	both set and equal           -> password change, subject to Min/MaxPasswordLength
func (r EditRequest) Validate() (EditIntent, error) {
	var intent EditIntent

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		switch {
		case name == "":
			return EditIntent{}, fieldError("name", msgBlank)
		case utf8.RuneCountInString(name) > MaxNameLength:
			return EditIntent{}, fieldError("name", fmt.Sprintf(msgMaxLength, MaxNameLength))
		}
		intent.Name = &name
	}

	hasPassword := r.Password != ""
	hasConfirmation := r.PasswordConfirmation != ""

	switch {
	case !hasPassword && !hasConfirmation:
		return intent, nil
	case hasPassword != hasConfirmation:
		return EditIntent{}, ErrBothPasswordFieldsRequired
	case r.Password != r.PasswordConfirmation:
		return EditIntent{}, ErrPasswordConfirmationMismatch
	case utf8.RuneCountInString(r.Password) < MinPasswordLength:
		return EditIntent{}, fieldError("password", fmt.Sprintf(msgMinLength, MinPasswordLength))
	case utf8.RuneCountInString(r.Password) > MaxPasswordLength:
		return EditIntent{}, fieldError("password", fmt.Sprintf(msgMaxLength, MaxPasswordLength))
	}

	pw := r.Password
	intent.Password = &pw
	return intent, nil
}

// Empty reports whether the intent changes nothing
func (i EditIntent) Empty() bool {
	return i.Name == nil && i.Password == nil
}
