package linkedin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized indicates a 401 response.
	ErrUnauthorized = errors.New("linkedin: unauthorized (check access token)")
	// ErrForbidden indicates a 403 response.
	ErrForbidden = errors.New("linkedin: forbidden")
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("linkedin: not found")
	// ErrThrottled indicates a throttle limit was reached.
	ErrThrottled = errors.New("linkedin: throttle limit reached")
)

// APIError models a LinkedIn error payload.
type APIError struct {
	Status    int    `json:"status,omitempty"`
	ErrorCode int    `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return fmt.Sprintf("linkedin api error: %s (status=%d)", e.Message, e.Status)
	}
	return fmt.Sprintf("linkedin api error (status=%d)", e.Status)
}

// Is reports whether e falls into the category of one of the sentinel errors.
func (e *APIError) Is(target error) bool {
	throttled := e.Status == http.StatusTooManyRequests ||
		(e.Status == http.StatusForbidden && strings.Contains(strings.ToLower(e.Message), "throttle"))
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden && !throttled
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrThrottled:
		return throttled
	}
	return false
}

func decodeError(status int, _ http.Header, body []byte) error {
	apiErr := &APIError{}
	_ = json.Unmarshal(body, apiErr)
	apiErr.Status = status
	return apiErr
}
