// Package authapi talks to the Fantasy Fútbol Sala auth service.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fantasysala/internal/registration"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterPath is the account creation endpoint, relative to the base URL.
const RegisterPath = "/api/auth/register/"

// DefaultBaseURL is the local development server.
const DefaultBaseURL = "http://127.0.0.1:8000"

// maxBodyBytes caps how much of a response we read.
const maxBodyBytes = 1 << 20

// Response is a successful registration. The body is kept as-is; nothing
// in the client depends on its shape.
type Response struct {
	Status    int
	Payload   json.RawMessage
	RequestID string
}

// Client sends registration requests.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a whole-request timeout. Zero leaves the transport
// default in place.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the full registration URL.
func (c *Client) Endpoint() string {
	return c.baseURL + RegisterPath
}

// Register posts the six form fields. Exactly one request is made; there
// are no retries. Any failure is returned as *Error.
func (c *Client) Register(ctx context.Context, f registration.Fields) (*Response, error) {
	requestID := uuid.NewString()
	log := c.logger.With(zap.String("request_id", requestID))

	body, err := json.Marshal(f)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("failed to encode request: %v", err), RequestID: requestID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("failed to create request: %v", err), RequestID: requestID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log.Debug("sending registration",
		zap.String("endpoint", c.Endpoint()),
		zap.String("username", f.Username),
		zap.String("email", f.Email))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("registration request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, &Error{Kind: KindTransport, Message: transportMessage(err), RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Message: transportMessage(err), RequestID: requestID, Err: err}
	}

	log.Debug("registration response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Kind:      KindStatus,
			Status:    resp.StatusCode,
			Message:   messageFromBody(string(raw)),
			Body:      string(raw),
			RequestID: requestID,
		}
		log.Info("registration rejected", zap.Int("status", resp.StatusCode), zap.String("message", apiErr.Message))
		return nil, apiErr
	}

	if !json.Valid(raw) {
		err := errors.New("response body is not valid JSON")
		return nil, &Error{Kind: KindDecode, Status: resp.StatusCode, Message: fmt.Sprintf("unexpected server response: %v", err), Body: string(raw), RequestID: requestID, Err: err}
	}

	return &Response{Status: resp.StatusCode, Payload: json.RawMessage(raw), RequestID: requestID}, nil
}

// RegisterFunc adapts the client to registration.Form.
func (c *Client) RegisterFunc() registration.RegisterFunc {
	return func(ctx context.Context, f registration.Fields) error {
		_, err := c.Register(ctx, f)
		return err
	}
}

func transportMessage(err error) string {
	if err == nil || err.Error() == "" {
		return FallbackMessage
	}
	return err.Error()
}
