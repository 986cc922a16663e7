package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"portal-client/internal/shared/kvkeys"
	"portal-client/internal/shared/storage/kv"
	"portal-client/internal/shared/telemetry"
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP boundary to the portal backend. It attaches the
// stored bearer credential to every request and intercepts 401 responses
// by clearing the credential and firing OnUnauthorized, the CLI analog of
// the web client's global logout-and-redirect.
type Client struct {
	baseURL string
	http    *http.Client
	creds   kv.Store

	// OnUnauthorized, when set, runs after a 401 response has cleared the
	// stored credential.
	OnUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New constructs a Client against baseURL, reading the credential from creds.
func New(baseURL string, creds kv.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the stored bearer token, if any.
func (c *Client) Token() (string, bool) {
	raw, ok := c.creds.Get(kvkeys.AuthToken)
	if !ok || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, generic string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out, generic)
}

func (c *Client) do(req *http.Request, out any, generic string) error {
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token, ok := c.Token(); ok {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", generic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearCredential()
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return ErrUnauthorized
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", generic, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendError(resp.StatusCode, data, generic)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) clearCredential() {
	if err := c.creds.Remove(kvkeys.AuthToken); err != nil {
		telemetry.Warn("credential.clear_failed", map[string]any{"key": kvkeys.AuthToken, "error": err.Error()})
	}
	if err := c.creds.Remove(kvkeys.User); err != nil {
		telemetry.Warn("credential.clear_failed", map[string]any{"key": kvkeys.User, "error": err.Error()})
	}
}

// backendError prefers the backend-supplied error message and falls back
// to the generic per-operation message.
func backendError(status int, body []byte, generic string) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &Error{StatusCode: status, Message: payload.Error}
	}
	return &Error{StatusCode: status, Message: generic}
}
