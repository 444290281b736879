package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lixenwraith/stacker/session"
)

// maxBodyBytes bounds how much of a response is read
const maxBodyBytes = 1 << 20

var ErrNoEndpoint = errors.New("endpoint not configured")

// StatusError reports a non-2xx response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status %d", e.Code)
	}
	return fmt.Sprintf("http status %d: %s", e.Code, e.Body)
}

// Client performs JSON requests against the collaborator endpoints with the session attached
type Client struct {
	http      *http.Client
	session   session.Session
	userAgent string
}

// NewClient creates a client using cfg timing; a nil cfg uses DefaultConfig
func NewClient(cfg *Config, sess session.Session) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.RequestTimeout},
		session:   sess,
		userAgent: cfg.UserAgent,
	}
}

// Session returns the identity the client authenticates as
func (c *Client) Session() session.Session {
	return c.session
}

// GetJSON fetches url and returns the raw body of a 2xx response
func (c *Client) GetJSON(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrNoEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// PostJSON encodes body as JSON, posts it to url and returns the raw body of a 2xx response
func (c *Client) PostJSON(ctx context.Context, url string, body any) ([]byte, error) {
	if url == "" {
		return nil, ErrNoEndpoint
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	c.session.Authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
