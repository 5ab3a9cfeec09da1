// Package api implements the bearer-authenticated JSON client for the remote
// intake backend. It owns status-code-to-domain-error translation and the
// global unauthorized policy: any auth-rejected response evicts the cached
// session exactly once, so individual services never re-implement that rule.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"intake/internal/platform/metrics"
	dErrors "intake/pkg/domain-errors"
)

// TokenSource yields the bearer token for outgoing requests. An empty string
// means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to the TokenSource interface.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client is the intake backend API client.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	userAgent      string
	retries        uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource wires the credential store into outgoing requests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook registers the callback invoked when the backend
// rejects a bearer token. The hook runs at most once per response.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRetries enables capped-backoff retries of GET requests on transport
// failures. Non-idempotent methods are never retried, and neither is a GET
// that reached the server and was rejected.
func WithRetries(n uint64) Option {
	return func(c *Client) { c.retries = n }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New constructs a client for the given base URL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "intake-cli",
		tracer:     otel.Tracer("intake/api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	if c.retries == 0 {
		return c.do(ctx, http.MethodGet, path, nil, out)
	}
	backoff := retry.WithMaxRetries(c.retries, retry.NewFibonacci(100*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, path, nil, out)
		if dErrors.HasCode(err, dErrors.CodeNetworkUnreachable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// Upload sends a multipart form with one file part plus extra string fields.
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, extra map[string]string, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build multipart request")
	}
	if _, err := io.Copy(part, file); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read upload payload")
	}
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "build multipart request")
		}
	}
	if err := mw.Close(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build multipart request")
	}
	return c.send(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "encode request body")
		}
		reqBody = bytes.NewReader(raw)
	}
	return c.send(ctx, method, path, reqBody, "application/json", out)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	start := time.Now()
	err := c.sendOnce(ctx, method, path, body, contentType, out, span)
	c.observe(method, start, err)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (c *Client) sendOnce(ctx context.Context, method, path string, body io.Reader, contentType string, out any, span trace.Span) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request transport failure", "method", method, "path", path, "error", err)
		return dErrors.Wrap(err, dErrors.CodeNetworkUnreachable, "request could not complete")
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(ctx, method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "decode response body")
		}
	}
	return nil
}

// errorFromResponse maps a non-2xx response onto the domain error taxonomy,
// preferring the server's message body when one is present.
func (c *Client) errorFromResponse(ctx context.Context, method, path string, resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(raw, &body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if c.metrics != nil {
			c.metrics.UnauthorizedEvictions.Inc()
		}
		c.logger.InfoContext(ctx, "token rejected, session evicted", "method", method, "path", path)
		return dErrors.New(dErrors.CodeUnauthorized, msg)
	case resp.StatusCode == http.StatusForbidden:
		return dErrors.New(dErrors.CodeForbidden, msg)
	case resp.StatusCode == http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, msg)
	case resp.StatusCode == http.StatusConflict:
		return dErrors.New(dErrors.CodeConflict, msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return dErrors.New(dErrors.CodeRateLimited, msg)
	case resp.StatusCode >= 500:
		return dErrors.New(dErrors.CodeServerError, msg)
	default:
		return dErrors.New(dErrors.CodeBadRequest, msg)
	}
}

func (c *Client) observe(method string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	c.metrics.RequestDurationMs.WithLabelValues(method, outcome).Observe(elapsed)
}
