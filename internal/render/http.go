package render

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html/charset"

	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/internal/resilience"
)

// HTTPOptions configures the HTTP renderer.
type HTTPOptions struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	MaxAttempts  int
	RatePerSec   float64
	RateBurst    int
}

// HTTPRenderer fetches static HTML with net/http. It does not execute
// scripts, so client-rendered sites come back thin; the auto chain falls
// back to a browser for those.
type HTTPRenderer struct {
	client   *http.Client
	opts     HTTPOptions
	retry    resilience.RetryConfig
	limiters *hostLimiters
}

// NewHTTPRenderer creates an HTTPRenderer.
func NewHTTPRenderer(opts HTTPOptions) *HTTPRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 2 * 1024 * 1024
	}
	retry := resilience.DefaultRetryConfig()
	if opts.MaxAttempts > 0 {
		retry.MaxAttempts = opts.MaxAttempts
	}
	return &HTTPRenderer{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		opts:     opts,
		retry:    retry,
		limiters: newHostLimiters(opts.RatePerSec, opts.RateBurst),
	}
}

func (h *HTTPRenderer) Name() string { return "http" }

type fetched struct {
	finalURL string
	body     string
}

// Render fetches targetURL, retrying transient failures, and parses the
// response into PageContent.
func (h *HTTPRenderer) Render(ctx context.Context, targetURL string) (*model.PageContent, error) {
	cfg := h.retry
	cfg.OnRetry = resilience.RetryLogger(h.Name(), targetURL)

	res, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (fetched, error) {
		return h.fetch(ctx, targetURL)
	})
	if err != nil {
		return nil, newRenderError(h.Name(), targetURL, err)
	}

	page := ParseHTML(targetURL, res.finalURL, res.body)
	return &page, nil
}

func (h *HTTPRenderer) fetch(ctx context.Context, targetURL string) (fetched, error) {
	limiter, host := h.limiters.forURL(targetURL)
	if limiter != nil {
		if err := limiter.wait(ctx); err != nil {
			return fetched{}, eris.Wrap(err, "http: rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return fetched{}, eris.Wrap(err, "http: create request")
	}
	if h.opts.UserAgent != "" {
		req.Header.Set("User-Agent", h.opts.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := h.client.Do(req)
	if err != nil {
		return fetched{}, eris.Wrap(err, "http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, h.opts.MaxBodyBytes))
	if err != nil {
		return fetched{}, eris.Wrap(err, "http: read body")
	}

	if blocked, blockType := DetectBlock(resp, raw); blocked {
		return fetched{}, eris.Errorf("http: blocked (%s)", blockType)
	}

	if resp.StatusCode >= 400 {
		if limiter != nil && resp.StatusCode == http.StatusTooManyRequests {
			limiter.onRateLimit(host)
		}
		statusErr := eris.Errorf("http: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return fetched{}, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return fetched{}, statusErr
	}
	if limiter != nil {
		limiter.onSuccess()
	}

	body, err := decodeBody(raw, resp.Header.Get("Content-Type"))
	if err != nil {
		return fetched{}, err
	}

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return fetched{finalURL: finalURL, body: body}, nil
}

// decodeBody converts raw to UTF-8 using the Content-Type charset or the
// document's own meta declaration.
func decodeBody(raw []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		// Unknown charset: fall back to the bytes as is.
		return string(raw), nil
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", eris.Wrap(err, "http: decode body")
	}
	return string(out), nil
}
