package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/rossum/internal/retry"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// Version is reported in the default User-Agent.
var Version = "dev"

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenManager authorizes outgoing requests.
type TokenManager interface {
	Authorize(ctx context.Context, req *http.Request) error
}

// Client performs requests against the API root.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager TokenManager
	logger       Logger
	debug        bool
	userAgent    string
	retryPolicy  retry.Policy
	timeout      time.Duration
	transport    http.RoundTripper
}

// Request describes a single API call. Path is joined to the base URL unless
// it is already absolute.
type Request struct {
	Method  string
	Path    string
	Query   rossum.Query
	Body    interface{}
	Files   []FilePart
	Headers map[string]string
	// ExpectedStatus overrides the per-method default.
	ExpectedStatus int
}

// Response is a completed call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	URL        string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryPolicy sets how connection failures are retried.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(c *Client) {
		c.retryPolicy = policy
	}
}

// WithTimeout sets a per attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// NewClient creates a new HTTP client.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) *Client {
	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenManager: tokenManager,
		userAgent:    DefaultUserAgent(),
		retryPolicy:  retry.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(client)
	}

	var retryLogger interface{}
	if client.logger != nil {
		retryLogger = &retryLogAdapter{logger: client.logger}
	}

	client.httpClient = client.retryPolicy.NewHTTPClient(retryLogger, client.timeout)
	if client.transport != nil {
		client.httpClient.HTTPClient.Transport = client.transport
	}

	return client
}

// DefaultUserAgent identifies the client and platform.
func DefaultUserAgent() string {
	return fmt.Sprintf("rossum/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs the request. A status other than the expected one yields the
// response together with a *rossum.APIError. Connection failures that survive
// the retry policy are returned unwrapped.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	expected, err := expectedStatus(req)
	if err != nil {
		return nil, err
	}

	fullURL, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(retry.Begin(ctx), req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.tokenManager != nil && httpReq.Header.Get("Authorization") == "" {
		err = c.tokenManager.Authorize(ctx, httpReq.Request)
		if err != nil {
			return nil, err
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err //nolint:wrapcheck // connection errors propagate unchanged
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
		URL:        fullURL,
	}

	if resp.Request != nil && resp.Request.URL != nil {
		response.URL = resp.Request.URL.String()
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   resp.StatusCode,
			"url":      response.URL,
			"duration": time.Since(start).String(),
		})
	}

	if resp.StatusCode != expected {
		return response, &rossum.APIError{
			StatusCode: resp.StatusCode,
			URL:        response.URL,
			Body:       string(respBody),
		}
	}

	return response, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query rossum.Query) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request expecting 201 Created.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request expecting 204 No Content.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}

// JSON decodes the body into v.
func (r *Response) JSON(v interface{}) error {
	err := json.Unmarshal(r.Body, v)
	if err != nil {
		return &rossum.MalformedResponseError{URL: r.URL, Body: string(r.Body)}
	}

	return nil
}

// Record decodes the body as a single object.
func (r *Response) Record() (rossum.Record, error) {
	var record rossum.Record

	err := r.JSON(&record)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, &rossum.MalformedResponseError{URL: r.URL, Body: string(r.Body)}
	}

	return record, nil
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

func expectedStatus(req *Request) (int, error) {
	var status int

	switch req.Method {
	case http.MethodGet, http.MethodPatch:
		status = http.StatusOK
	case http.MethodPost:
		status = http.StatusCreated
	case http.MethodDelete:
		status = http.StatusNoContent
	default:
		return 0, fmt.Errorf("%w: %s", rossum.ErrUnsupportedMethod, req.Method)
	}

	if req.ExpectedStatus != 0 {
		status = req.ExpectedStatus
	}

	return status, nil
}

// IsAbsolute reports whether path is a full URL rather than an API path.
func IsAbsolute(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func (c *Client) buildURL(path string, query rossum.Query) (string, error) {
	raw := path
	if !IsAbsolute(path) {
		raw = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing URL %q: %w", raw, err)
	}

	if len(query) > 0 {
		values := parsed.Query()
		for key, vals := range EncodeQuery(query) {
			values[key] = vals
		}

		parsed.RawQuery = values.Encode()
	}

	return parsed.String(), nil
}

func encodeBody(req *Request) (interface{}, string, error) {
	if len(req.Files) > 0 {
		return encodeMultipart(req.Files)
	}

	if req.Body == nil {
		return nil, "", nil
	}

	payload, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("marshaling request body: %w", err)
	}

	return bytes.NewReader(payload), "application/json", nil
}
