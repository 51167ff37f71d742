package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrRelayUnavailable  = errors.New("contact relay is not configured")
	ErrNotFound          = errors.New("submission not found")
)

// FriendlyError is the only failure shape callers of Service.Submit see
// besides validation errors.
type FriendlyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *FriendlyError) Error() string {
	return e.Message
}

func (e *FriendlyError) Unwrap() error { return e.Cause }

// StatusError reports a non-2xx relay response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay responded %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func mapRelayError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRelayUnavailable) {
		return &FriendlyError{Code: "RELAY_NOT_CONFIGURED", Message: "The contact form is not available right now. Please email me directly.", Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &FriendlyError{Code: "RELAY_TIMEOUT", Message: "The message could not be delivered in time. Please try again.", Cause: err}
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return &FriendlyError{Code: "RELAY_RATE_LIMITED", Message: "Too many messages were sent. Please try again later.", Cause: err}
		case statusErr.StatusCode >= 500:
			return &FriendlyError{Code: "RELAY_UNAVAILABLE", Message: "The message service is unavailable. Please try again later.", Cause: err}
		default:
			return &FriendlyError{Code: "RELAY_REJECTED", Message: "The message was rejected. Check the fields and try again.", Cause: err}
		}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &FriendlyError{Code: "RELAY_UNREACHABLE", Message: "The message service could not be reached. Please try again later.", Cause: err}
	}
	return &FriendlyError{Code: "RELAY_FAILURE", Message: "The message could not be sent.", Cause: err}
}
