package gateway

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/pulsegram/pulse/internal/errors"
)

// FailureMessage is the generic text surfaced when a request fails at the
// transport level. Individual callers never see a more specific message;
// the server's application-level messages travel in the response body.
const FailureMessage = "Something went wrong. Please try again."

// CSRFCookie is the cookie the session token is read from; its value is
// echoed back in the CSRFHeader on every request. All endpoints,
// search included, are form-encoded POSTs.
const (
	CSRFCookie = "csrftoken"
	CSRFHeader = "X-CSRFToken"
)

// Notifier receives the generic failure message when a request dies in
// transit. toast.Manager satisfies it.
type Notifier interface {
	Error(message string)
}

// Client is the single path through which widgets reach the server API.
// It speaks form-encoded POST and JSON responses, attaches the CSRF token,
// and validates that every response body parses as JSON before handing it
// to the caller.
type Client struct {
	http     *resty.Client
	log      *slog.Logger
	notifier Notifier
	metrics  *metrics
	csrf     string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithNotifier sets the sink for transport failure notifications.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithMetrics installs request counters on the given registry.
func WithMetrics(reg Registerer) Option {
	return func(c *Client) { c.metrics = newMetrics(reg) }
}

// New creates a client rooted at baseURL holding the given CSRF token.
func New(baseURL, csrfToken string, opts ...Option) *Client {
	c := &Client{
		http: resty.New(),
		log:  slog.Default(),
		csrf: csrfToken,
	}
	c.http.SetBaseURL(baseURL)
	c.http.SetTimeout(10 * time.Second)
	c.http.SetHeader("X-Requested-With", "XMLHttpRequest")

	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if c.csrf != "" {
			req.Header.Set(CSRFHeader, c.csrf)
			req.SetCookie(&http.Cookie{Name: CSRFCookie, Value: c.csrf})
		}
		c.log.Debug("api request", "method", req.Method, "url", req.URL)
		return nil
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCSRFToken replaces the token, e.g. after the server rotates it.
func (c *Client) SetCSRFToken(token string) {
	c.csrf = token
}

// PostForm sends a form-encoded POST and returns the raw JSON body.
// A non-2xx status, a network failure, or a non-JSON body all return a
// *errors.TransportError and surface the generic failure notification.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(endpoint)
	return c.finish(endpoint, start, resp, err)
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Field    string
	Filename string
	Content  []byte
}

// PostMultipart sends a multipart POST carrying form fields and an
// optional file, with the same failure contract as PostForm.
func (c *Client) PostMultipart(ctx context.Context, endpoint string, fields map[string]string, file *Upload) ([]byte, error) {
	start := time.Now()
	req := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(fields)
	if file != nil {
		req.SetMultipartField(file.Field, file.Filename, "application/octet-stream", bytes.NewReader(file.Content))
	}
	resp, err := req.Post(endpoint)
	return c.finish(endpoint, start, resp, err)
}

func (c *Client) finish(endpoint string, start time.Time, resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, c.transportFailure(endpoint, start, &errors.TransportError{Endpoint: endpoint, Err: err})
	}
	if resp.IsError() {
		return nil, c.transportFailure(endpoint, start, &errors.TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode()})
	}
	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, c.transportFailure(endpoint, start, &errors.TransportError{
			Endpoint: endpoint,
			Err:      errors.New("E110", errors.CategoryTransport, "response body is not valid JSON"),
		})
	}
	c.metrics.observe(endpoint, "ok", time.Since(start))
	return body, nil
}

func (c *Client) transportFailure(endpoint string, start time.Time, te *errors.TransportError) error {
	c.metrics.observe(endpoint, "transport_error", time.Since(start))
	c.log.Warn("api request failed", "endpoint", endpoint, "err", te)
	if c.notifier != nil {
		c.notifier.Error(FailureMessage)
	}
	return te
}
