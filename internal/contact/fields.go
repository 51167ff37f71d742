package contact

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxNameRunes    = 200
	maxMessageRunes = 5000
)

// Fields are the values a visitor enters in the contact form.
type Fields struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (f Fields) Normalize() Fields {
	return Fields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate checks normalized fields. Errors wrap ErrInvalidSubmission.
func (f Fields) Validate() error {
	if f.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidSubmission)
	}
	addr, err := mail.ParseAddress(f.Email)
	if err != nil || addr.Address != f.Email {
		return fmt.Errorf("%w: email is not a valid address", ErrInvalidSubmission)
	}
	if f.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidSubmission)
	}
	if utf8.RuneCountInString(f.Message) > maxMessageRunes {
		return fmt.Errorf("%w: message must be at most %d characters", ErrInvalidSubmission, maxMessageRunes)
	}
	if utf8.RuneCountInString(f.Name) > maxNameRunes {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidSubmission, maxNameRunes)
	}
	return nil
}
