package facebook

import (
	"errors"
	"net/http"
	"testing"
)

func TestDecodeError_Categories(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"expired token", 400, `{"error":{"message":"Error validating access token","type":"OAuthException","code":190}}`, ErrNotAuthorized},
		{"plain 401", 401, `nope`, ErrNotAuthorized},
		{"missing permission", 403, `{"error":{"message":"(#200) Requires permission","type":"OAuthException","code":200}}`, ErrInsufficientPermission},
		{"code 10", 400, `{"error":{"code":10}}`, ErrInsufficientPermission},
		{"app rate limit", 400, `{"error":{"message":"(#4) Application request limit reached","code":4}}`, ErrRateLimitExceeded},
		{"page rate limit", 400, `{"error":{"code":32}}`, ErrRateLimitExceeded},
		{"plain 429", 429, ``, ErrRateLimitExceeded},
		{"alias not found", 404, `{"error":{"message":"(#803) Some of the aliases you requested do not exist","code":803}}`, ErrResourceNotFound},
		{"missing object", 400, `{"error":{"code":100,"error_subcode":33}}`, ErrResourceNotFound},
		{"unknown error", 500, `{"error":{"message":"An unknown error has occurred.","code":1}}`, ErrServerError},
		{"plain 503", 503, `<html>down</html>`, ErrServerError},
		{"401 with other code", 401, `{"error":{"code":2500}}`, ErrNotAuthorized},
		{"403 with other code", 403, `{"error":{"code":100}}`, ErrInsufficientPermission},
		{"429 with other code", 429, `{"error":{"code":100}}`, ErrRateLimitExceeded},
		{"503 with other code", 503, `{"error":{"code":100}}`, ErrServerError},
	}
	sentinels := []error{ErrNotAuthorized, ErrInsufficientPermission, ErrRateLimitExceeded, ErrResourceNotFound, ErrServerError}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := decodeError(tc.status, http.Header{}, []byte(tc.body))
			for _, s := range sentinels {
				if got := errors.Is(err, s); got != (s == tc.want) {
					t.Fatalf("errors.Is(%v, %v) = %v", err, s, got)
				}
			}
		})
	}
}

func TestDecodeError_KeepsPayload(t *testing.T) {
	err := decodeError(400, nil, []byte(`{"error":{"message":"Invalid parameter","type":"OAuthException","code":100,"fbtrace_id":"Fz9"}}`))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T", err)
	}
	if apiErr.Status != 400 || apiErr.Code != 100 || apiErr.Type != "OAuthException" || apiErr.TraceID != "Fz9" {
		t.Fatalf("unexpected %+v", apiErr)
	}
	if apiErr.Error() != "facebook api error: Invalid parameter (status=400, code=100, type=OAuthException)" {
		t.Fatalf("message = %q", apiErr.Error())
	}
}
