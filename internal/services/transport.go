// HTTP transport collaborator used by [YandexService]
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/yamusic/internal/shared"
	"golang.org/x/time/rate"
)

// Request describes a single call to the remote API.
//
// Form, when set, is sent url-encoded as the request body.
type Request struct {
	Method  string
	Host    string
	Path    string
	Params  url.Values
	Headers http.Header
	Form    url.Values
}

// Transport performs a request and returns the raw response body of a 2xx response.
//
// Any other status is reported as an [*HTTPError].
type Transport interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// HTTPError is a non-2xx response from the remote API.
type HTTPError struct {
	Method     string
	Host       string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s: %s %s/%s: status %d", shared.ErrAPIRequest, e.Method, e.Host, e.Path, e.StatusCode)
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		msg += ": " + body
	}
	return msg
}

func (e *HTTPError) Unwrap() error { return shared.ErrAPIRequest }

// TransportOpts configures an [HTTPTransport].
type TransportOpts struct {
	Scheme    string        // defaults to https
	Timeout   time.Duration // zero disables the client timeout
	RateLimit float64       // requests per second, zero disables limiting
	Client    *http.Client
	Logger    *log.Logger
}

// HTTPTransport implements [Transport] on top of [http.Client] with an optional request rate limit.
type HTTPTransport struct {
	scheme     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewHTTPTransport creates a transport from opts, filling in defaults for unset fields.
func NewHTTPTransport(opts TransportOpts) *HTTPTransport {
	if opts.Scheme == "" {
		opts.Scheme = "https"
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	t := &HTTPTransport{
		scheme:     opts.Scheme,
		httpClient: opts.Client,
		logger:     shared.WithLogger(opts.Logger, "component", "transport"),
	}
	if opts.RateLimit > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return t
}

// Client returns the underlying [http.Client], shared with the OAuth token exchange.
func (t *HTTPTransport) Client() *http.Client {
	return t.httpClient
}

// URL builds the absolute URL of a host and path.
func (t *HTTPTransport) URL(host, path string) string {
	return fmt.Sprintf("%s://%s/%s", t.scheme, host, strings.TrimPrefix(path, "/"))
}

// Do performs req, waiting on the rate limiter first.
func (t *HTTPTransport) Do(ctx context.Context, req Request) ([]byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	fullURL := t.URL(req.Host, req.Path)
	if len(req.Params) > 0 {
		fullURL += "?" + req.Params.Encode()
	}

	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	t.logger.Debug("request", "method", req.Method, "host", req.Host, "path", req.Path, "params", req.Params.Encode())

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrAPIRequest, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	t.logger.Debug("response", "path", req.Path, "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			Method:     req.Method,
			Host:       req.Host,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Body:       data,
		}
	}

	return data, nil
}
