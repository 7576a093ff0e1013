package theirstory

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storylink/internal/services"
)

// AuthenticationError reports rejected credentials, a sign-in response without
// a token, or an authenticated call made without a session.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RequestError carries a non-2xx HTTP response.
type RequestError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	detail := strings.TrimSpace(e.Body)
	if detail == "" {
		detail = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%d - %s", e.Status, detail)
}

// ValidationError reports a missing identifier or field before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Field + " is required"
}

func (e *ValidationError) Is(target error) bool { return target == services.ErrValidation }

// MediaNotFoundError reports transcript metadata without a recording URL.
type MediaNotFoundError struct {
	StoryID string
}

func (e *MediaNotFoundError) Error() string {
	return fmt.Sprintf("no video URL found in transcript data for story %s", e.StoryID)
}

func (e *MediaNotFoundError) Is(target error) bool { return target == services.ErrNotFound }

// IsUnauthorized reports whether err is an AuthenticationError or a 401/403 response.
func IsUnauthorized(err error) bool {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return true
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status == http.StatusUnauthorized || reqErr.Status == http.StatusForbidden
	}
	return false
}

func notSignedIn() error { return &AuthenticationError{Reason: "not signed in"} }
