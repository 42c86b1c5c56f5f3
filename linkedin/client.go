// Package linkedin is a thin client for the LinkedIn REST API.
package linkedin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"github.com/raezil/social-go/internal/rest"
	"github.com/raezil/social-go/transport"
)

const (
	defaultBaseURL = "https://api.linkedin.com/v1"
	defaultUA      = "social-go/0.1 (+github.com/raezil/social-go)"
)

// ErrMissingAccessToken is returned before any I/O when the client has no token.
var ErrMissingAccessToken = errors.New("linkedin: access token is empty")

// Client is a LinkedIn API client.
type Client struct {
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

// WithBaseURL overrides the API base URL (useful for testing).
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

// WithMetrics records request metrics under the "linkedin" API label.
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
			API:            "linkedin",
			AccessToken:    c.accessToken,
			Metrics:        c.metrics,
			Tracing:        c.tracing,
			TracerProvider: c.tracer,
		}),
		Logger:      c.logger.WithField("api", "linkedin"),
		DecodeError: decodeError,
		Header:      http.Header{"X-Li-Format": {"json"}},
	})
	return c
}

// get fetches resource with the given field projection into out.
func (c *Client) get(ctx context.Context, resource string, fields []string, query url.Values, out any) error {
	if c.accessToken == "" {
		return ErrMissingAccessToken
	}
	q := url.Values{"format": {"json"}}
	for k, vs := range query {
		q[k] = vs
	}
	if err := c.rest.GetJSON(ctx, resource+projection(fields), q, out); err != nil {
		return errors.Wrapf(err, "linkedin: fetch %s", resource)
	}
	return nil
}

// projection renders LinkedIn's field selector, e.g. ":(id,name)".
func projection(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	return ":(" + strings.Join(fields, ",") + ")"
}

// GetUserProfile fetches the authenticated member's profile.
func (c *Client) GetUserProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.get(ctx, "people/~", ProfileFields, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfileByID fetches a member profile by ID.
func (c *Client) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := c.get(ctx, "people/id="+url.PathEscape(id), ProfileFields, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCompany fetches a company by numeric ID.
func (c *Client) GetCompany(ctx context.Context, id int) (*Company, error) {
	var co Company
	if err := c.get(ctx, "companies/"+strconv.Itoa(id), CompanyFields, nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

// GetCompanyByUniversalName fetches a company by its universal name, e.g. "linkedin".
func (c *Client) GetCompanyByUniversalName(ctx context.Context, name string) (*Company, error) {
	var co Company
	if err := c.get(ctx, "companies/universal-name="+url.PathEscape(name), CompanyFields, nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

// GetProducts fetches a page of a company's products. A count of zero or less
// leaves the page size to LinkedIn.
func (c *Client) GetProducts(ctx context.Context, companyID, start, count int) (*Products, error) {
	q := url.Values{}
	if start > 0 {
		q.Set("start", strconv.Itoa(start))
	}
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	var p Products
	if err := c.get(ctx, "companies/"+strconv.Itoa(companyID)+"/products", ProductFields, q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// productPageSize is the page size GetProductRecommendations walks with.
const productPageSize = 20

// GetProductRecommendations returns the recommendations of one product of a
// company. It returns ErrNotFound when the company has no such product.
func (c *Client) GetProductRecommendations(ctx context.Context, companyID, productID int) ([]ProductRecommendation, error) {
	for start := 0; ; start += productPageSize {
		page, err := c.GetProducts(ctx, companyID, start, productPageSize)
		if err != nil {
			return nil, err
		}
		for _, p := range page.Values {
			if p.ID == productID {
				return p.Recommendations.Values, nil
			}
		}
		if len(page.Values) == 0 || start+len(page.Values) >= page.Total {
			return nil, errors.Wrapf(ErrNotFound, "linkedin: product %d of company %d", productID, companyID)
		}
	}
}
