package device

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/muurk/sunrise/internal/logging"
)

const (
	// DefaultPort is the firmware's web server port
	DefaultPort = 80

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultRequestRate caps requests per second sent to the controller
	DefaultRequestRate = 4

	// DefaultBurst allows a short burst (e.g. action followed by a re-poll)
	DefaultBurst = 2

	// maxStatusBody bounds how much of a /status response is read
	maxStatusBody = 64 << 10
)

// Client talks to a sunrise controller over plain HTTP GET
type Client struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.1.50")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Limiter paces requests; the ESP32 web server handles one at a time.
	// Nil disables pacing.
	Limiter *rate.Limiter

	// OnUnreachable is invoked by Call whenever a request fails
	OnUnreachable func(error)
}

// NewClient creates a client for host:port
func NewClient(host string, port int) *Client {
	if port == 0 {
		port = DefaultPort
	}
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", host, port))
}

// NewClientWithURL creates a client with a full base URL
// baseURL: e.g. "http://192.168.1.50:80"
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Limiter:    rate.NewLimiter(rate.Limit(DefaultRequestRate), DefaultBurst),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// URL returns the absolute URL for a request
func (c *Client) URL(req Request) string {
	return c.BaseURL + req.String()
}

// Do sends req and reports whether the device answered with 2xx.
// The response body is discarded.
func (c *Client) Do(ctx context.Context, req Request) error {
	resp, err := c.get(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Call is Do for fire-and-forget user actions: the error is reduced to a
// bool and reported through OnUnreachable.
func (c *Client) Call(ctx context.Context, req Request) bool {
	err := c.Do(ctx, req)
	if err == nil {
		return true
	}
	if c.OnUnreachable != nil {
		c.OnUnreachable(err)
	}
	return false
}

// Status fetches and strictly decodes /status
func (c *Client) Status(ctx context.Context) (*Status, error) {
	req := StatusRequest()

	resp, err := c.get(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBody))
	if err != nil {
		return nil, NewNetworkError(req.Path, "failed to read status body", err)
	}
	logging.LogStatusBody(body)

	status, err := ParseStatus(body)
	if err != nil {
		return nil, NewParseError(req.Path, "invalid status payload", err)
	}
	return status, nil
}

// Ping checks that the device answers /status at all
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Status(ctx)
	return err
}

// get performs the paced GET and maps failures onto DeviceError.
// On success the caller owns resp.Body.
func (c *Client) get(ctx context.Context, req Request) (*http.Response, error) {
	start := time.Now()
	target := req.String()

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			derr := NewNetworkError(req.Path, "request cancelled", err)
			logging.LogDeviceCall(target, time.Since(start), derr)
			return nil, derr
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(req), nil)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid request %s: %v", target, err))
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		derr := NewNetworkError(req.Path, "device unreachable", err)
		logging.LogDeviceCall(target, time.Since(start), derr)
		return nil, derr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		derr := NewHTTPError(req.Path, resp.StatusCode)
		logging.LogDeviceCall(target, time.Since(start), derr)
		return nil, derr
	}

	logging.LogDeviceCall(target, time.Since(start), nil)
	return resp, nil
}
