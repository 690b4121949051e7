// Package apiclient is the single gateway to the storefront REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/platform/requestctx"
)

const (
	requestIDHeader = "X-Request-ID"
	defaultTimeout  = 10 * time.Second
)

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// CredentialSource yields the bearer credential to attach, or "" when signed out.
type CredentialSource interface {
	Credential() string
}

// CredentialFunc adapts a function to CredentialSource.
type CredentialFunc func() string

// Credential implements CredentialSource.
func (f CredentialFunc) Credential() string { return f() }

// Client issues JSON requests against the configured base URL.
type Client struct {
	base        *url.URL
	client      HTTPClient
	credentials CredentialSource
	logger      *zap.Logger
	tracer      trace.Tracer
	newID       func() string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithCredentials sets where the bearer credential is read from before each request.
func WithCredentials(source CredentialSource) Option {
	return func(c *Client) {
		c.credentials = source
	}
}

// WithLogger attaches a logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for client spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.newID = next
		}
	}
}

// New constructs a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("apiclient: base URL %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	c := &Client{
		base:   parsed,
		client: &http.Client{Timeout: defaultTimeout},
		logger: zap.NewNop(),
		tracer: otel.Tracer("github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Send issues a request with an optional JSON body and decodes a JSON response into out when non-nil.
func (c *Client) Send(ctx context.Context, method, endpoint string, body, out any) error {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
			return fmt.Errorf("apiclient: encode payload: %w", err)
		}
		reader = &buf
		contentType = "application/json"
	}
	return c.do(ctx, method, endpoint, reader, contentType, out)
}

// SendMultipart uploads content as a single multipart form file under field.
func (c *Client) SendMultipart(ctx context.Context, method, endpoint, field, filename string, content io.Reader, out any) error {
	if content == nil {
		return errors.New("apiclient: multipart content is required")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("apiclient: build multipart: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("apiclient: copy multipart content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("apiclient: close multipart: %w", err)
	}
	return c.do(ctx, method, endpoint, &buf, writer.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	target, err := c.resolve(endpoint)
	if err != nil {
		return err
	}

	ctx, span := c.tracer.Start(ctx, "storefront "+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", target.Path),
	)

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.credentials != nil {
		if credential := strings.TrimSpace(c.credentials.Credential()); credential != "" {
			req.Header.Set("Authorization", "Bearer "+credential)
		}
	}
	requestID := requestctx.RequestID(ctx)
	if requestID == "" {
		requestID = c.newID()
	}
	req.Header.Set(requestIDHeader, requestID)

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", target.Path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %w", ErrUnreachable, method, target.Path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", target.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := errorFromResponse(resp)
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("apiclient: decode %s %s: %w", method, target.Path, err)
	}
	return nil
}

func (c *Client) resolve(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(strings.TrimSpace(endpoint), "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse endpoint %q: %w", endpoint, err)
	}
	if ref.IsAbs() {
		return nil, fmt.Errorf("apiclient: endpoint %q must be relative", endpoint)
	}
	return c.base.ResolveReference(ref), nil
}
