package render

import (
	"context"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/model"
)

// ChromeRenderer renders pages in a fresh headless Chrome per call via
// chromedp. The browser is shut down before Render returns, on every path.
type ChromeRenderer struct {
	opts BrowserOptions
}

// NewChromeRenderer creates a ChromeRenderer.
func NewChromeRenderer(opts BrowserOptions) *ChromeRenderer {
	return &ChromeRenderer{opts: opts.withDefaults()}
}

func (c *ChromeRenderer) Name() string { return "chrome" }

// Render navigates to targetURL, waits for <body>, lets scripts settle, and
// reads title, headings, links, and the full HTML.
func (c *ChromeRenderer) Render(ctx context.Context, targetURL string) (*model.PageContent, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.ExecPath))
	}
	if c.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(c.opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, c.opts.Timeout)
	defer cancel()

	var (
		title, html     string
		headings, links []string
	)
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(c.opts.Settle),
		chromedp.Title(&title),
		chromedp.Evaluate("("+headingsJS+")()", &headings),
		chromedp.Evaluate("("+linksJS+")()", &links),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, newRenderError(c.Name(), targetURL, eris.Wrap(err, "chrome: render"))
	}

	zap.L().Debug("chrome: rendered page",
		zap.String("url", targetURL),
		zap.Int("html_bytes", len(html)),
	)
	return browserPage(targetURL, title, html, headings, links), nil
}
