package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/commute-dashboard/internal/apperr"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errClientError   = errors.New("client error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// DefaultBackoff is used by NewClient.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

// Client performs GET requests for the feeds with retries, exponential
// backoff and one circuit breaker per feed.
type Client struct {
	httpCfg HTTPClientConfig

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewClient wraps httpClient with the default backoff.
func NewClient(httpClient *http.Client) *Client {
	return NewClientWithConfig(HTTPClientConfig{Client: httpClient, Backoff: DefaultBackoff})
}

// NewClientWithConfig builds a Client from an explicit configuration.
func NewClientWithConfig(cfg HTTPClientConfig) *Client {
	return &Client{
		httpCfg:  cfg,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (c *Client) breaker(feed string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	cb, ok := c.breakers[feed]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        feed,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		})
		c.breakers[feed] = cb
	}
	return cb
}

// Fetch retrieves the full body at url. Failures are reported as
// *apperr.FetchError.
func (c *Client) Fetch(ctx context.Context, feed, url string) ([]byte, error) {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	body, status, err := doRequestWithResilience(ctx, c.httpCfg, c.breaker(feed), buildRequest)
	if err != nil {
		return nil, &apperr.FetchError{URL: url, Status: status, Err: err}
	}
	return body, nil
}

type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return fmt.Sprintf("%v: %d", e.err, e.status) }

func (e *statusError) Unwrap() error { return e.err }

// doRequestWithResilience executes the HTTP request with retries, exponential backoff,
// and a circuit breaker. It returns the body and the last HTTP status seen.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) ([]byte, int, error) {
	if cfg.Client == nil {
		return nil, 0, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, 0, errInvalidConfig
	}

	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, 0, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return nil, &statusError{status: resp.StatusCode, err: errRateLimited}
			case resp.StatusCode >= 500:
				return nil, &statusError{status: resp.StatusCode, err: errServerError}
			case resp.StatusCode >= 400:
				return nil, &statusError{status: resp.StatusCode, err: errClientError}
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				return nil, &statusError{status: resp.StatusCode, err: errUnexpected}
			}

			return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		})

		if err == nil {
			body, ok := result.([]byte)
			if !ok {
				return nil, 0, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return body, http.StatusOK, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, 0, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		status := 0
		var se *statusError
		if errors.As(err, &se) {
			status = se.status
		}

		// Client errors will not improve with retries.
		if errors.Is(err, errClientError) || attempt >= cfg.Backoff.MaxRetries {
			return nil, status, err
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, status, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}
