package render

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/model"
)

// Chain tries renderers in order. A renderer's page is accepted when its
// visible text reaches minText or it is the last renderer; otherwise the
// next renderer is tried. If every later renderer fails, the best thin page
// seen is returned.
type Chain struct {
	renderers []Renderer
	minText   int
}

// NewChain creates a Chain over renderers.
func NewChain(minText int, renderers ...Renderer) *Chain {
	return &Chain{renderers: renderers, minText: minText}
}

func (c *Chain) Name() string { return "auto" }

func (c *Chain) Render(ctx context.Context, targetURL string) (*model.PageContent, error) {
	var (
		thin    *model.PageContent
		lastErr error
	)
	for i, r := range c.renderers {
		page, err := r.Render(ctx, targetURL)
		if err != nil {
			zap.L().Debug("render: renderer failed, trying next",
				zap.String("renderer", r.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		last := i == len(c.renderers)-1
		if last || VisibleTextLength(page.RawHTML) >= c.minText {
			return page, nil
		}
		zap.L().Debug("render: thin content, trying next renderer",
			zap.String("renderer", r.Name()),
			zap.String("url", targetURL),
		)
		if thin == nil {
			thin = page
		}
	}

	if thin != nil {
		return thin, nil
	}
	if lastErr != nil {
		return nil, newRenderError(c.Name(), targetURL, lastErr)
	}
	return nil, newRenderError(c.Name(), targetURL, eris.New("render: no renderers configured"))
}
