package render

import (
	"context"
	"strings"
	"time"

	"github.com/sells-group/lead-scout/internal/model"
)

// BrowserOptions configures the headless browser renderers.
type BrowserOptions struct {
	Timeout   time.Duration
	Settle    time.Duration
	Headless  bool
	ExecPath  string
	UserAgent string
}

func (o BrowserOptions) withDefaults() BrowserOptions {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Settle < 0 {
		o.Settle = 0
	}
	return o
}

// Scripts evaluated in the rendered page. innerText gives the visible text
// of a heading; a.href is already resolved against the document base.
const (
	headingsJS = `() => Array.from(document.querySelectorAll('h1, h2')).map(e => e.innerText.replace(/\s+/g, ' ').trim())`
	linksJS    = `() => Array.from(document.querySelectorAll('a')).map(a => a.href).filter(h => h)`
)

// browserPage assembles PageContent from values read out of a live page.
func browserPage(url, title, html string, headings, links []string) *model.PageContent {
	if headings == nil {
		headings = []string{}
	}
	if links == nil {
		links = []string{}
	}
	return &model.PageContent{
		URL:      url,
		Title:    strings.TrimSpace(title),
		RawHTML:  html,
		Headings: headings,
		Links:    links,
	}
}

// sleepCtx waits d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
