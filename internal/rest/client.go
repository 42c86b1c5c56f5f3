// Package rest is the low-level HTTP/JSON client shared by the API bindings.
//
// It knows how to build a URL, send a request, and decode a JSON body. What a
// non-2xx body means is left to the binding through an ErrorDecoder.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// maxErrorBody bounds how much of a non-2xx body is read.
const maxErrorBody = 1 << 20

// secretParams are query parameters masked before a URL is logged or
// returned in an error. Graph paging links carry access_token.
var secretParams = []string{"access_token", "oauth2_access_token"}

// ErrorDecoder turns a non-2xx response into an error.
type ErrorDecoder func(status int, header http.Header, body []byte) error

// Config configures a Client.
type Config struct {
	BaseURL     string
	UserAgent   string
	HTTPClient  *http.Client
	Logger      log.Interface
	DecodeError ErrorDecoder

	// Header is sent with every request.
	Header http.Header
}

// Client performs requests against a single API base URL.
type Client struct {
	baseURL     string
	ua          string
	http        *http.Client
	logger      log.Interface
	decodeError ErrorDecoder
	header      http.Header
}

// StatusError is returned for non-2xx responses when no ErrorDecoder is set.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rest: http %d", e.Status)
}

// New constructs a Client.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		ua:          cfg.UserAgent,
		http:        cfg.HTTPClient,
		logger:      cfg.Logger,
		decodeError: cfg.DecodeError,
		header:      cfg.Header,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = log.Log
	}
	return c
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins path onto the base URL and appends query.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// GetJSON GETs path and decodes the response into out. A nil out discards the body.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.GetJSONURL(ctx, c.URL(path, query), out)
}

// GetJSONURL GETs an absolute URL, such as a paging link.
func (c *Client) GetJSONURL(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// PostForm POSTs a url-encoded form to path and decodes the response into out.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

// Delete sends DELETE to path.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.URL(path, query), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}

	safeURL := RedactURL(req.URL)
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = safeURL
		}
		c.logger.WithFields(log.Fields{
			"method": req.Method,
			"url":    safeURL,
		}).WithError(err).Debug("rest: request failed")
		return err
	}
	defer res.Body.Close()

	c.logger.WithFields(log.Fields{
		"method":  req.Method,
		"url":     safeURL,
		"status":  res.StatusCode,
		"elapsed": time.Since(start),
	}).Debug("rest: response")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		if c.decodeError != nil {
			return c.decodeError(res.StatusCode, res.Header, b)
		}
		return &StatusError{Status: res.StatusCode, Body: b}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "rest: decode %s %s", req.Method, req.URL.Path)
	}
	return nil
}

// RedactURL renders u with its userinfo password and access token query
// parameters masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	masked := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "xxxxx")
			masked = true
		}
	}
	if !masked {
		return u.Redacted()
	}
	cp := *u
	cp.RawQuery = q.Encode()
	return cp.Redacted()
}
