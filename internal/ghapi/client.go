package ghapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"

	"github.com/google/go-github/v50/github"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com/"

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds each request. Zero means DefaultTimeout, negative disables it.
	Timeout time.Duration

	// Transport is the underlying round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client performs repository secret operations against GitHub.
// It holds no credentials; each call takes a *Session.
type Client struct {
	baseURL   *url.URL
	timeout   time.Duration
	transport http.RoundTripper
}

// NewClient returns a Client for opts.
func NewClient(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}

	baseURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing API URL %q: %w", opts.BaseURL, err)
	}
	if baseURL.Scheme != "https" && baseURL.Scheme != "http" {
		return nil, fmt.Errorf("API URL %q must be http or https", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{baseURL: baseURL, timeout: timeout, transport: opts.Transport}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) github(sess *Session) *github.Client {
	gh := github.NewClient(&http.Client{
		Transport: &authTransport{token: sess.token, base: c.transport},
	})
	baseURL := *c.baseURL
	gh.BaseURL = &baseURL
	return gh
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout < 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// remoteError converts a go-github failure into a RemoteError.
func remoteError(op string, resp *github.Response, err error) error {
	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		status   int
		message  string
	)

	switch {
	case errors.As(err, &errResp):
		status, message = statusOf(errResp.Response), errResp.Message
	case errors.As(err, &rateErr):
		status, message = statusOf(rateErr.Response), rateErr.Message
	case errors.As(err, &abuseErr):
		status, message = statusOf(abuseErr.Response), abuseErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		message = "request timed out"
	case errors.Is(err, context.Canceled):
		message = "request canceled"
	default:
		if resp != nil {
			status = statusOf(resp.Response)
		}
		message = err.Error()
	}

	return kerrors.NewRemoteError(op, status, message)
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func isNotFound(err error) bool {
	var remote *kerrors.RemoteError
	return errors.As(err, &remote) && remote.Status == http.StatusNotFound
}
