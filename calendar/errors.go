package calendar

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrEventNotFound is returned when the backend does not know the event
	ErrEventNotFound = errors.New("event not found")
	// ErrAlreadyDeleted is returned when the event was deleted before
	ErrAlreadyDeleted = errors.New("event has already been deleted")
	// ErrCalendarUnavailable is returned when no calendar backend is configured
	ErrCalendarUnavailable = errors.New("calendar service is not available")
)

// APIError is any other failure reported by the calendar backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar api error (%d): %s", e.StatusCode, e.Message)
}

// translateError maps Google API failures onto the package errors
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusNotFound:
		return ErrEventNotFound
	case http.StatusGone:
		return ErrAlreadyDeleted
	}

	msg := gerr.Message
	if msg == "" {
		msg = http.StatusText(gerr.Code)
	}
	switch gerr.Code {
	case http.StatusUnauthorized:
		msg = "authentication failed, run the auth command to refresh the token: " + msg
	case http.StatusForbidden:
		msg = "access to the calendar was denied: " + msg
	case http.StatusTooManyRequests:
		msg = "calendar API rate limit exceeded: " + msg
	}
	return &APIError{StatusCode: gerr.Code, Message: msg}
}

// StatusCode returns the HTTP status an error should surface as
func StatusCode(err error) int {
	var apiErr *APIError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyDeleted):
		return http.StatusGone
	case errors.Is(err, ErrCalendarUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		return apiErr.StatusCode
	default:
		return http.StatusInternalServerError
	}
}
