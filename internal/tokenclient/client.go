package tokenclient

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
)

// DefaultTimeout bounds one refresh exchange so a hung authorization server
// cannot hang the whole tool.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of the token endpoint's response is read.
const maxResponseBytes = 1 << 20

// Token is the material returned by a successful refresh exchange.
type Token struct {
	AccessToken  string
	RefreshToken string // empty when the issuer did not rotate it
	ExpiresAt    int64  // epoch milliseconds
	Scopes       []string
}

// ErrorKind classifies a failed exchange.
type ErrorKind int

const (
	// KindTransport covers DNS, connect, TLS and timeout failures.
	KindTransport ErrorKind = iota
	// KindHTTPStatus covers non-2xx responses from the token endpoint.
	KindHTTPStatus
	// KindInvalidResponse covers 2xx responses whose body is unparseable
	// or missing required token material.
	KindInvalidResponse
)

// String returns the kind's short name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Error is a failed refresh exchange, terminal for the invocation.
type Error struct {
	Kind   ErrorKind
	Status int    // HTTP status, set for KindHTTPStatus
	Body   string // response body excerpt, set for KindHTTPStatus
	err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("token refresh transport failure: %v", e.err)
	case KindHTTPStatus:
		return fmt.Sprintf("token endpoint returned HTTP %d: %s", e.Status, e.Body)
	case KindInvalidResponse:
		return fmt.Sprintf("token endpoint returned an unusable response: %v", e.err)
	default:
		return fmt.Sprintf("token refresh failed: %v", e.err)
	}
}

func (e *Error) Unwrap() error { return e.err }

// Client performs refresh-token exchanges against one token endpoint.
type Client struct {
	tokenURL   string
	clientID   string
	httpClient *http.Client
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithTokenURL overrides the token endpoint, mainly for tests.
func WithTokenURL(u string) Option {
	return func(c *Client) { c.tokenURL = u }
}

// WithClientID overrides the OAuth client identifier.
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// WithHTTPClient sets a custom HTTP client, e.g. for a different timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each exchange with the given request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a Client for the Anthropic Claude token endpoint.
func New(opts ...Option) *Client {
	c := &Client{
		tokenURL:   Endpoint.TokenURL,
		clientID:   ClientID,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// refreshRequest is the JSON body of the refresh-token grant.
type refreshRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
	ClientID     string `json:"client_id"`
}

// refreshResponse covers both expiry shapes the server may answer with:
// a relative expires_in in seconds, or an absolute expires_at in epoch ms.
type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	Scope        string `json:"scope"`
}

// Refresh trades refreshToken for fresh token material. Every failure is a
// *Error; callers must not modify stored credentials when one is returned.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	body, err := json.Marshal(refreshRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
		ClientID:     c.clientID,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindHTTPStatus, Status: resp.StatusCode, Body: excerpt(respBody)}
	}

	var parsed refreshResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &Error{Kind: KindInvalidResponse, err: err}
	}
	if parsed.AccessToken == "" {
		return nil, &Error{Kind: KindInvalidResponse, err: errors.New("response has no access_token")}
	}

	expiresAt := parsed.ExpiresAt
	if expiresAt == 0 {
		if parsed.ExpiresIn <= 0 {
			return nil, &Error{Kind: KindInvalidResponse, err: errors.New("response has neither expires_at nor expires_in")}
		}
		expiresAt = c.now().UnixMilli() + parsed.ExpiresIn*1000
	}

	var scopes []string
	if parsed.Scope != "" {
		scopes = strings.Fields(parsed.Scope)
	}

	return &Token{
		AccessToken:  parsed.AccessToken,
		RefreshToken: parsed.RefreshToken,
		ExpiresAt:    expiresAt,
		Scopes:       scopes,
	}, nil
}

// excerpt trims a response body to a size safe to embed in error messages.
func excerpt(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
