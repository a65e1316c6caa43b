package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/creditmonitor/internal/common"
	"github.com/dmitrijs2005/creditmonitor/internal/logging"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "creditmonitor-cli/1"

	// maxErrorBody bounds how much of a failed response is kept for errors.
	maxErrorBody = 4 << 10
)

// Client is the backend contract used by the session store, the
// connectivity prober and the dashboard services.
type Client interface {
	Ping(ctx context.Context, path string) error
	ValidateToken(ctx context.Context, token string) error
	Login(ctx context.Context, idToken string) (string, error)
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

// Config wires the authenticated transport.
type Config struct {
	// BaseURL is the backend origin, e.g. "https://credits.example.com".
	BaseURL string
	// DataPrefix is prepended to GetJSON paths. Empty means "/api"; "/"
	// disables the prefix.
	DataPrefix    string
	Timeout       time.Duration
	Transport     http.RoundTripper
	Tokens        TokenSource
	OnAuthFailure AuthFailureHandler
	UserAgent     string
	Logger        logging.Logger
}

// APIClient is the single HTTP client of the application. Every request goes
// through the same middleware chain: request id, bearer credential, and the
// auth-failure interceptor.
type APIClient struct {
	baseURL    string
	dataPrefix string
	userAgent  string
	httpClient *http.Client
	logger     logging.Logger
}

var _ Client = (*APIClient)(nil)

func NewAPIClient(cfg Config) (*APIClient, error) {
	base, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	prefix := strings.Trim(cfg.DataPrefix, "/")
	if cfg.DataPrefix == "" {
		prefix = "api"
	}
	if prefix != "" {
		prefix = "/" + prefix
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	rt := Chain(cfg.Transport,
		WithRequestID(),
		WithBearer(cfg.Tokens),
		WithAuthFailureInterceptor(cfg.OnAuthFailure),
	)

	return &APIClient{
		baseURL:    base,
		dataPrefix: prefix,
		userAgent:  ua,
		httpClient: &http.Client{Transport: rt, Timeout: timeout},
		logger:     logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("client: base URL required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("client: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("client: base URL must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("client: base URL missing host")
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

// BaseURL returns the normalised backend origin.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// HTTPClient exposes the configured client so other callers share the same
// interceptor chain instead of building their own.
func (c *APIClient) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *APIClient) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// do sends req and converts transport errors and non-2xx statuses into
// errors. On success the caller owns resp.Body.
func (c *APIClient) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(req.Context(), "http request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	c.logger.Debug(req.Context(), "http request", "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// Ping performs a liveness probe against path on the backend origin. Any 2xx
// is success.
func (c *APIClient) Ping(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// ValidateToken asks the backend whether token is still a valid session.
func (c *APIClient) ValidateToken(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/validate/token", nil)
	if err != nil {
		return err
	}
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// Login exchanges an identity-provider token for a backend session
// credential. The response body is the credential.
func (c *APIClient) Login(ctx context.Context, idToken string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/login", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+idToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read login response: %w", err)
	}
	credential := strings.TrimSpace(string(body))
	if credential == "" {
		return "", fmt.Errorf("%w: empty credential in login response", ErrUnexpectedStatus)
	}
	return credential, nil
}

// GetJSON fetches a data endpoint below the data prefix and decodes the JSON
// body into out.
func (c *APIClient) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.dataPrefix+"/"+strings.TrimPrefix(path, "/"), query)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
