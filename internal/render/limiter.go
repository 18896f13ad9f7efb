package render

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// adaptiveLimiter wraps a rate.Limiter that speeds up on success (20%, up to
// 2x initial) and halves on 429 (down to initial/4).
type adaptiveLimiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	maxRate     rate.Limit
	minRate     rate.Limit
	currentRate rate.Limit
}

func newAdaptiveLimiter(initial rate.Limit, burst int) *adaptiveLimiter {
	return &adaptiveLimiter{
		limiter:     rate.NewLimiter(initial, burst),
		maxRate:     initial * 2,
		minRate:     initial / 4,
		currentRate: initial,
	}
}

func (a *adaptiveLimiter) wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

func (a *adaptiveLimiter) onSuccess() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.currentRate = min(a.currentRate*1.2, a.maxRate)
	a.limiter.SetLimit(a.currentRate)
}

func (a *adaptiveLimiter) onRateLimit(host string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.currentRate = max(a.currentRate*0.5, a.minRate)
	a.limiter.SetLimit(a.currentRate)
	zap.L().Warn("render: reducing rate after 429",
		zap.String("host", host),
		zap.Float64("new_rate", float64(a.currentRate)),
	)
}

// hostLimiters hands out one adaptiveLimiter per host. A zero rate disables
// limiting.
type hostLimiters struct {
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	limiters map[string]*adaptiveLimiter
}

func newHostLimiters(perSec float64, burst int) *hostLimiters {
	if burst < 1 {
		burst = 1
	}
	return &hostLimiters{
		rate:     rate.Limit(perSec),
		burst:    burst,
		limiters: make(map[string]*adaptiveLimiter),
	}
}

// forURL returns the limiter for rawURL's host, or nil when limiting is off.
func (h *hostLimiters) forURL(rawURL string) (*adaptiveLimiter, string) {
	if h == nil || h.rate <= 0 {
		return nil, ""
	}
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = strings.ToLower(u.Hostname())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		l = newAdaptiveLimiter(h.rate, h.burst)
		h.limiters[host] = l
	}
	return l, host
}
