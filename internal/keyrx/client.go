package keyrx

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

	"github.com/keyrx/keyrx-tray/internal/buildinfo"
)

var (
	// ErrUnreachable marks a failed read: network error, timeout, non-success
	// status or an undecodable body.
	ErrUnreachable = errors.New("daemon unreachable")
	// ErrCommandFailed marks a write the daemon did not acknowledge.
	ErrCommandFailed = errors.New("daemon command failed")
)

// Transport is the daemon control API as seen by the rest of the tray.
// It is implemented by *Client and *Mock.
type Transport interface {
	FetchStatus(ctx context.Context) (StatusResponse, error)
	FetchProfiles(ctx context.Context) ([]Profile, error)
	SendToggle(ctx context.Context, enabled bool) error
	SendActivateProfile(ctx context.Context, name string) error
}

// Ensure Client implements Transport at compile time.
var _ Transport = (*Client)(nil)

// Client talks to the KeyRx daemon HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL        = "http://127.0.0.1:9867"
	DefaultRequestTimeout = 2 * time.Second
)

// NewClient builds a Client for the daemon at baseURL. A zero timeout uses
// DefaultRequestTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: "keyrx-tray/" + buildinfo.Version,
	}, nil
}

// FetchStatus retrieves the daemon's running state, profile and remapping flag.
// A null or empty object is treated as no answer.
func (c *Client) FetchStatus(ctx context.Context) (StatusResponse, error) {
	var payload struct {
		Running          *bool   `json:"running"`
		Version          string  `json:"version"`
		Profile          *string `json:"profile"`
		RemappingEnabled *bool   `json:"remapping_enabled"`
	}
	if err := c.get(ctx, "/api/status", &payload); err != nil {
		return StatusResponse{}, err
	}
	if payload.Running == nil && payload.Profile == nil && payload.RemappingEnabled == nil {
		return StatusResponse{}, fmt.Errorf("%w: api /api/status returned an empty payload", ErrUnreachable)
	}

	status := StatusResponse{Version: payload.Version}
	if payload.Running != nil {
		status.Running = *payload.Running
	}
	if payload.Profile != nil {
		status.Profile = *payload.Profile
	}
	if payload.RemappingEnabled != nil {
		status.RemappingEnabled = *payload.RemappingEnabled
	}
	return status, nil
}

// FetchProfiles retrieves the profile list in daemon order.
func (c *Client) FetchProfiles(ctx context.Context) ([]Profile, error) {
	var payload ProfileListResponse
	if err := c.get(ctx, "/api/profiles", &payload); err != nil {
		return nil, err
	}
	return payload.Profiles, nil
}

// SendToggle asks the daemon to enable or disable remapping.
func (c *Client) SendToggle(ctx context.Context, enabled bool) error {
	return c.post(ctx, "/api/toggle", ToggleRequest{Enabled: enabled})
}

// SendActivateProfile asks the daemon to switch to the named profile.
func (c *Client) SendActivateProfile(ctx context.Context, name string) error {
	return c.post(ctx, "/api/profiles/activate", ActivateProfileRequest{Name: name})
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: api %s returned status %d", ErrUnreachable, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnreachable, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrCommandFailed, err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, encoded)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: api %s returned status %d", ErrCommandFailed, path, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// ParseBaseURL normalizes a daemon origin: a scheme is added when missing and
// any path, query or fragment is dropped.
func ParseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
