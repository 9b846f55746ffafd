package stayhub

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stayhub api: %d %s", e.Status, e.Message)
}

func IsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError

	if errors.As(err, &apiErr) {
		return apiErr
	}

	return nil
}

// newAPIError prefers the backend's own message and falls back to a
// user-facing text for the status.
func newAPIError(status int, message string) *APIError {
	if message != "" && status != http.StatusForbidden && status < http.StatusInternalServerError {
		return &APIError{Status: status, Message: message}
	}

	switch status {
	case http.StatusBadRequest:
		message = "invalid data, check the dates and number of guests"
	case http.StatusUnauthorized:
		message = "invalid credentials"
	case http.StatusForbidden:
		message = "you are not allowed to perform this action"
	case http.StatusNotFound:
		message = "resource not found"
	case http.StatusConflict:
		message = "the selected dates are not available"
	default:
		if status >= http.StatusInternalServerError {
			message = "server error"
		} else {
			message = fmt.Sprintf("error %d", status)
		}
	}

	return &APIError{Status: status, Message: message}
}
