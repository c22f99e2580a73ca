package httpclient

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cesargomez89/watchlist/internal/constants"
)

// Throttle tracks the remote service's advertised quota and blocks callers
// once the remaining budget drops to the buffer until the quota resets.
type Throttle struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	known     bool
	buffer    int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewThrottle returns a Throttle that starts waiting at buffer remaining calls.
func NewThrottle(buffer int) *Throttle {
	return &Throttle{
		buffer: buffer,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Observe records the quota headers of a response. Missing or malformed
// headers leave the previous value in place.
func (t *Throttle) Observe(h http.Header) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v := h.Get(constants.HeaderRateLimitRemaining); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			t.remaining = n
			t.known = true
		}
	}
	if v := h.Get(constants.HeaderRateLimitReset); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			t.reset = time.Unix(epoch, 0)
		}
	}
}

// Delay reports how long the next call would have to wait.
func (t *Throttle) Delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delayLocked()
}

func (t *Throttle) delayLocked() time.Duration {
	if !t.known || t.remaining > t.buffer {
		return 0
	}
	if d := t.reset.Sub(t.now()); d > 0 {
		return d
	}
	return 0
}

// Wait blocks until the quota allows another call or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	d := t.delayLocked()
	sleep := t.sleep
	t.mu.Unlock()

	if d <= 0 {
		return nil
	}
	if err := sleep(ctx, d); err != nil {
		return err
	}

	t.mu.Lock()
	if !t.now().Before(t.reset) {
		t.known = false
	}
	t.mu.Unlock()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Client wraps an http.Client with a request-spacing limiter and the
// header-driven Throttle. It never retries.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	throttle   *Throttle
}

// NewClient creates a client allowing requestsPerSecond outgoing calls.
// A non-positive rate disables spacing.
func NewClient(httpClient *http.Client, requestsPerSecond float64) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: constants.DefaultTMDBTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		}
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		throttle:   NewThrottle(constants.RateLimitBuffer),
	}
}

// Do waits for the quota, sends req and records the quota headers of the
// response, whatever its status.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	c.throttle.Observe(resp.Header)
	return resp, nil
}
