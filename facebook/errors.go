package facebook

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrNotAuthorized indicates an invalid or expired access token.
	ErrNotAuthorized = errors.New("facebook: not authorized")
	// ErrInsufficientPermission indicates the token lacks a required permission.
	ErrInsufficientPermission = errors.New("facebook: insufficient permission")
	// ErrRateLimitExceeded indicates an application or user rate limit was hit.
	ErrRateLimitExceeded = errors.New("facebook: rate limit exceeded")
	// ErrResourceNotFound indicates the object ID does not resolve.
	ErrResourceNotFound = errors.New("facebook: resource not found")
	// ErrServerError indicates a Graph-side failure.
	ErrServerError = errors.New("facebook: server error")
)

// APIError models a Graph error payload.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Code    int    `json:"code,omitempty"`
	Subcode int    `json:"error_subcode,omitempty"`
	TraceID string `json:"fbtrace_id,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return fmt.Sprintf("facebook api error: %s (status=%d, code=%d, type=%s)", e.Message, e.Status, e.Code, e.Type)
	}
	return fmt.Sprintf("facebook api error (status=%d)", e.Status)
}

// Is reports whether e falls into the category of one of the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotAuthorized:
		return e.Code == 190 || e.Code == 102 || e.Status == http.StatusUnauthorized
	case ErrInsufficientPermission:
		return e.Code == 10 || (e.Code >= 200 && e.Code <= 299) || e.Status == http.StatusForbidden
	case ErrRateLimitExceeded:
		switch e.Code {
		case 4, 17, 32, 341, 613:
			return true
		}
		return e.Status == http.StatusTooManyRequests
	case ErrResourceNotFound:
		return e.Code == 803 || (e.Code == 100 && e.Subcode == 33) || e.Status == http.StatusNotFound
	case ErrServerError:
		return e.Code == 1 || e.Code == 2 || e.Status >= 500
	}
	return false
}

func decodeError(status int, _ http.Header, body []byte) error {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		apiErr = envelope.Error
		apiErr.Status = status
	}
	return apiErr
}
