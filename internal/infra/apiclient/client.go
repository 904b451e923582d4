// Package apiclient is the HTTP client for the task API.
// Every method issues exactly one request; there is no retry.
package apiclient

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
	"time"

	"github.com/google/uuid"
	"github.com/runoshun/taskboard/internal/domain"
	"golang.org/x/oauth2"
)

// RequestIDHeader carries a per-request UUID for server-side correlation.
const RequestIDHeader = "X-Request-Id"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Ensure Client implements the API ports.
var (
	_ domain.TaskAPI   = (*Client)(nil)
	_ domain.DetailAPI = (*Client)(nil)
	_ domain.AuthAPI   = (*Client)(nil)
)

// authScope selects how a request is authorized.
type authScope int

const (
	authNone authScope = iota // No Authorization header
	authTask                  // Bearer token according to the configured AuthMode
)

// Options configures a Client.
// Fields are ordered to minimize memory padding.
type Options struct {
	Tokens     domain.TokenProvider
	Logger     domain.Logger
	HTTPClient *http.Client // Optional; its Transport is wrapped
	BaseURL    string
	AuthMode   domain.AuthMode
	Version    string
	Timeout    time.Duration
}

// Client talks to the task API.
type Client struct {
	http     *http.Client
	tokens   domain.TokenProvider
	logger   domain.Logger
	baseURL  *url.URL
	authMode domain.AuthMode
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}

	mode := opts.AuthMode
	if mode == "" {
		mode = domain.AuthWhenAvailable
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAuthMode, mode)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultTimeout
	}

	var inner http.RoundTripper = http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		inner = opts.HTTPClient.Transport
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens = domain.NewSessionState(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = domain.NopLogger{}
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &headerTransport{
				base:      inner,
				userAgent: domain.AppName + "/" + version,
			},
		},
		tokens:   tokens,
		logger:   logger,
		baseURL:  base,
		authMode: mode,
	}, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// headerTransport stamps every outgoing request, including the OAuth2 token request.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get(RequestIDHeader) == "" {
		r.Header.Set(RequestIDHeader, uuid.NewString())
	}
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(r)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// authorize applies the configured auth mode to a task request.
func (c *Client) authorize(req *http.Request, scope authScope) error {
	if scope != authTask {
		return nil
	}
	token := c.tokens.Token()
	switch c.authMode {
	case domain.AuthNever:
		return nil
	case domain.AuthAlways:
		if token == "" {
			return domain.ErrNotLoggedIn
		}
	case domain.AuthWhenAvailable:
		if token == "" {
			return nil
		}
	}
	setBearer(req, token)
	return nil
}

func setBearer(req *http.Request, token string) {
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
}

// request describes one API call.
type request struct {
	body        io.Reader
	out         any
	method      string
	path        string
	contentType string
	token       string // Explicit bearer token, overrides scope
	scope       authScope
}

// jsonBody encodes v as a request body.
func jsonBody(v any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return &buf, nil
}

// do sends r and decodes a 2xx JSON response into r.out.
func (c *Client) do(ctx context.Context, r request) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if r.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
		return decodeError(err)
	}
	return nil
}

// send issues r and returns a 2xx response whose body the caller must close.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path), r.body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		setBearer(req, r.token)
	} else if err := c.authorize(req, r.scope); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(0, "api", fmt.Sprintf("%s %s: %v", r.method, r.path, err))
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, transportError(urlErr.Err)
		}
		return nil, transportError(err)
	}
	c.logger.Debug(0, "api", fmt.Sprintf("%s %s -> %d", r.method, r.path, resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp.StatusCode, body)
	}
	return resp, nil
}
