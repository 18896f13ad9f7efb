package render

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-scout/internal/model"
)

// RodRenderer renders pages with go-rod and the stealth evasions, for sites
// that turn away plain headless Chrome.
type RodRenderer struct {
	opts BrowserOptions
}

// NewRodRenderer creates a RodRenderer.
func NewRodRenderer(opts BrowserOptions) *RodRenderer {
	return &RodRenderer{opts: opts.withDefaults()}
}

func (r *RodRenderer) Name() string { return "rod" }

// Render launches a browser, opens a stealth tab, and reads the rendered
// page. Browser and launcher are cleaned up before returning.
func (r *RodRenderer) Render(ctx context.Context, targetURL string) (*model.PageContent, error) {
	page, err := r.render(ctx, targetURL)
	if err != nil {
		return nil, newRenderError(r.Name(), targetURL, err)
	}
	return page, nil
}

func (r *RodRenderer) render(ctx context.Context, targetURL string) (*model.PageContent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	l := launcher.New().Context(ctx).Headless(r.opts.Headless).Set("disable-gpu")
	if r.opts.ExecPath != "" {
		l = l.Bin(r.opts.ExecPath)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, eris.Wrap(err, "rod: launch browser")
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, eris.Wrap(err, "rod: connect")
	}
	defer func() { _ = browser.Close() }()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, eris.Wrap(err, "rod: create tab")
	}
	if r.opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.opts.UserAgent}); err != nil {
			return nil, eris.Wrap(err, "rod: set user agent")
		}
	}
	if err := page.Navigate(targetURL); err != nil {
		return nil, eris.Wrapf(err, "rod: navigate %s", targetURL)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, eris.Wrap(err, "rod: wait load")
	}
	if err := sleepCtx(ctx, r.opts.Settle); err != nil {
		return nil, eris.Wrap(err, "rod: settle")
	}

	info, err := page.Info()
	if err != nil {
		return nil, eris.Wrap(err, "rod: page info")
	}
	html, err := page.HTML()
	if err != nil {
		return nil, eris.Wrap(err, "rod: read html")
	}
	headings, err := evalStrings(page, headingsJS)
	if err != nil {
		return nil, eris.Wrap(err, "rod: read headings")
	}
	links, err := evalStrings(page, linksJS)
	if err != nil {
		return nil, eris.Wrap(err, "rod: read links")
	}

	return browserPage(targetURL, info.Title, html, headings, links), nil
}

func evalStrings(page *rod.Page, js string) ([]string, error) {
	res, err := page.Eval(js)
	if err != nil {
		return nil, err
	}
	arr := res.Value.Arr()
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.Str())
	}
	return out, nil
}
