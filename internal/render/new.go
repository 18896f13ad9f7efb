package render

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-scout/internal/config"
)

// New builds the renderer selected by cfg.Driver.
func New(cfg config.RenderConfig) (Renderer, error) {
	httpOpts := HTTPOptions{
		Timeout:      time.Duration(cfg.TimeoutSecs) * time.Second,
		UserAgent:    cfg.UserAgent,
		MaxBodyBytes: cfg.MaxBodyBytes,
		MaxAttempts:  cfg.MaxAttempts,
		RatePerSec:   cfg.RatePerSec,
		RateBurst:    cfg.RateBurst,
	}
	browserOpts := BrowserOptions{
		Timeout:   time.Duration(cfg.TimeoutSecs) * time.Second,
		Settle:    time.Duration(cfg.SettleSecs) * time.Second,
		Headless:  cfg.Headless,
		ExecPath:  cfg.ChromePath,
		UserAgent: cfg.UserAgent,
	}

	switch cfg.Driver {
	case "http":
		return NewHTTPRenderer(httpOpts), nil
	case "chrome":
		return NewChromeRenderer(browserOpts), nil
	case "rod":
		return NewRodRenderer(browserOpts), nil
	case "file":
		return NewFileRenderer(), nil
	case "auto":
		return NewChain(cfg.MinTextLength,
			NewHTTPRenderer(httpOpts),
			NewChromeRenderer(browserOpts),
			NewRodRenderer(browserOpts),
		), nil
	default:
		return nil, eris.Errorf("render: unknown driver %q", cfg.Driver)
	}
}
