// Package facebook is a thin client for the Facebook Graph API.
//
// Endpoint wrappers such as GroupAPI translate an object ID into a Graph path
// and delegate the HTTP call and JSON mapping to GraphAPI.
package facebook

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"github.com/raezil/social-go/internal/rest"
	"github.com/raezil/social-go/transport"
)

const (
	defaultBaseURL = "https://graph.facebook.com/v19.0"
	defaultUA      = "social-go/0.1 (+github.com/raezil/social-go)"
)

// ErrMissingAccessToken is returned before any I/O when the client has no token.
var ErrMissingAccessToken = errors.New("facebook: access token is empty")

// GraphAPI is the low-level Graph client the endpoint wrappers delegate to.
type GraphAPI interface {
	FetchObject(ctx context.Context, objectID string, fields []string, out any) error
	FetchConnections(ctx context.Context, objectID, connection string, params url.Values, out any) error
	FetchURL(ctx context.Context, rawURL string, out any) error
	Publish(ctx context.Context, objectID, connection string, data url.Values) (string, error)
	Delete(ctx context.Context, objectID string) error
}

// Client is a Graph API client.
type Client struct {
	// Groups wraps the group endpoints.
	Groups *GroupAPI

	accessToken string
	baseURL     string
	ua          string
	http        *http.Client
	logger      log.Interface
	metrics     *transport.Metrics
	tracing     bool
	tracer      trace.TracerProvider
	rest        *rest.Client
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the Graph base URL, including the version segment.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the http.Client the auth and instrumentation layers wrap.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.ua = ua }
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l log.Interface) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records request metrics under the "facebook" API label.
func WithMetrics(m *transport.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracing wraps requests in OpenTelemetry client spans.
func WithTracing() Option {
	return func(c *Client) { c.tracing = true }
}

// WithTracerProvider sends client spans to tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracing = true
		c.tracer = tp
	}
}

// NewClient constructs a Client authenticated with accessToken.
func NewClient(accessToken string, opts ...Option) *Client {
	c := &Client{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		ua:          defaultUA,
		http:        &http.Client{Timeout: 30 * time.Second},
		logger:      log.Log,
	}
	for _, o := range opts {
		o(c)
	}
	c.rest = rest.New(rest.Config{
		BaseURL:   c.baseURL,
		UserAgent: c.ua,
		HTTPClient: transport.Wrap(c.http, transport.Config{
			API:            "facebook",
			AccessToken:    c.accessToken,
			Metrics:        c.metrics,
			Tracing:        c.tracing,
			TracerProvider: c.tracer,
		}),
		Logger:      c.logger.WithField("api", "facebook"),
		DecodeError: decodeError,
	})
	c.Groups = &GroupAPI{graph: c}
	return c
}

// FetchObject fetches a single Graph object into out.
// When fields is non-empty only those fields are requested.
func (c *Client) FetchObject(ctx context.Context, objectID string, fields []string, out any) error {
	if c.accessToken == "" {
		return ErrMissingAccessToken
	}
	var q url.Values
	if len(fields) > 0 {
		q = url.Values{"fields": {strings.Join(fields, ",")}}
	}
	if err := c.rest.GetJSON(ctx, url.PathEscape(objectID), q, out); err != nil {
		return errors.Wrapf(err, "facebook: fetch %s", objectID)
	}
	return nil
}

// FetchConnections fetches one page of the named connection of objectID into out.
func (c *Client) FetchConnections(ctx context.Context, objectID, connection string, params url.Values, out any) error {
	if c.accessToken == "" {
		return ErrMissingAccessToken
	}
	path := url.PathEscape(objectID) + "/" + connection
	if err := c.rest.GetJSON(ctx, path, params, out); err != nil {
		return errors.Wrapf(err, "facebook: fetch %s/%s", objectID, connection)
	}
	return nil
}

// FetchURL fetches an absolute URL, typically a paging link returned by Graph.
func (c *Client) FetchURL(ctx context.Context, rawURL string, out any) error {
	if c.accessToken == "" {
		return ErrMissingAccessToken
	}
	if err := c.rest.GetJSONURL(ctx, rawURL, out); err != nil {
		return errors.Wrap(err, "facebook: fetch page")
	}
	return nil
}

// Publish POSTs data to the connection of objectID and returns the new object's ID.
func (c *Client) Publish(ctx context.Context, objectID, connection string, data url.Values) (string, error) {
	if c.accessToken == "" {
		return "", ErrMissingAccessToken
	}
	var out struct {
		ID string `json:"id"`
	}
	path := url.PathEscape(objectID) + "/" + connection
	if err := c.rest.PostForm(ctx, path, data, &out); err != nil {
		return "", errors.Wrapf(err, "facebook: publish %s/%s", objectID, connection)
	}
	return out.ID, nil
}

// Delete deletes a Graph object.
func (c *Client) Delete(ctx context.Context, objectID string) error {
	if c.accessToken == "" {
		return ErrMissingAccessToken
	}
	if err := c.rest.Delete(ctx, url.PathEscape(objectID), nil); err != nil {
		return errors.Wrapf(err, "facebook: delete %s", objectID)
	}
	return nil
}

// FetchObject fetches objectID and decodes it into a T.
func FetchObject[T any](ctx context.Context, g GraphAPI, objectID string, fields ...string) (*T, error) {
	var out T
	if err := g.FetchObject(ctx, objectID, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchConnections fetches one page of a connection and decodes its elements into T.
func FetchConnections[T any](ctx context.Context, g GraphAPI, objectID, connection string, params url.Values) (*PagedList[T], error) {
	var page graphPage[T]
	if err := g.FetchConnections(ctx, objectID, connection, params, &page); err != nil {
		return nil, err
	}
	return page.list(), nil
}

// FetchAllConnections follows paging.next links and returns every element of a
// connection. max caps the number of elements; zero or less means no cap.
func FetchAllConnections[T any](ctx context.Context, g GraphAPI, objectID, connection string, params url.Values, max int) ([]T, error) {
	list, err := FetchConnections[T](ctx, g, objectID, connection, params)
	if err != nil {
		return nil, err
	}
	out := list.Data
	for list.NextURL != "" && len(list.Data) > 0 && (max <= 0 || len(out) < max) {
		var page graphPage[T]
		if err := g.FetchURL(ctx, list.NextURL, &page); err != nil {
			return nil, err
		}
		list = page.list()
		out = append(out, list.Data...)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out, nil
}
