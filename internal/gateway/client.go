// Package gateway holds the typed HTTP client for the restaurant REST backend.
// It is the only place that knows backend paths and wire shapes; everything it
// returns is already normalized to the models package.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrGateway is wrapped by every non-success backend response.
	ErrGateway = errors.New("backend request failed")
	// ErrNetwork is wrapped by transport failures and timeouts.
	ErrNetwork = errors.New("backend unreachable")
)

// Error is a non-2xx backend response.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return ErrGateway }

// Config for the backend client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is safe for concurrent use. The bearer token of the logged-in principal is
// cached on the client and attached to every request.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a backend client with an instrumented transport.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// SetToken caches the authorization token used for subsequent calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken drops the cached authorization token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the cached authorization token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	token  *string // overrides the cached token when set
}

func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encoding %s %s payload: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	token := c.Token()
	if req.token != nil {
		token = *req.token
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s: %v", ErrNetwork, req.method, req.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{StatusCode: resp.StatusCode, Method: req.method, Path: req.path, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %v", ErrGateway, req.method, req.path, err)
	}
	return nil
}

// IsStatus reports whether err is a backend response with the given status code.
func IsStatus(err error, code int) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.StatusCode == code
}
