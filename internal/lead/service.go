// Package lead turns a URL into a scored LeadReport: render the page,
// extract signals, score them, flatten the result.
package lead

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-scout/internal/extract"
	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/internal/render"
	"github.com/sells-group/lead-scout/internal/scorer"
	"github.com/sells-group/lead-scout/internal/store"
)

// Service produces lead reports. It holds no per-call state and is safe for
// concurrent use.
type Service struct {
	renderer render.Renderer
	store    store.Store
}

// Option configures a Service.
type Option func(*Service)

// WithStore saves every successful report to st.
func WithStore(st store.Store) Option {
	return func(s *Service) { s.store = st }
}

// NewService creates a Service that renders pages with r.
func NewService(r render.Renderer, opts ...Option) *Service {
	s := &Service{renderer: r}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProduceReport renders url and returns its scored report. A rendering
// failure is returned as a *render.RenderError and no report is produced.
func (s *Service) ProduceReport(ctx context.Context, url string) (*model.LeadReport, error) {
	start := time.Now()
	log := zap.L().With(zap.String("url", url), zap.String("renderer", s.renderer.Name()))

	page, err := s.renderer.Render(ctx, url)
	if err != nil {
		log.Warn("lead: render failed", zap.Error(err))
		if !render.IsRenderError(err) {
			err = &render.RenderError{URL: url, Renderer: s.renderer.Name(), Err: err}
		}
		return nil, err
	}

	rec := extract.Extract(*page)
	res := scorer.Score(rec)
	report := model.NewLeadReport(rec, res)

	log.Info("lead: report produced",
		zap.Int("score", report.Score),
		zap.Strings("tags", res.Tags),
		zap.Duration("elapsed", time.Since(start)),
	)

	if s.store != nil {
		if _, err := s.store.SaveReport(ctx, report); err != nil {
			log.Warn("lead: save report failed", zap.Error(err))
		}
	}

	return &report, nil
}

// BatchError records a URL whose report could not be produced.
type BatchError struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Err   error  `json:"-"`
}

func (e BatchError) Error() string {
	return e.URL + ": " + e.Err.Error()
}

// ProduceBatch produces reports for urls with at most concurrency calls in
// flight. Reports are returned in input order, skipping failed URLs, whose
// errors are returned separately in input order.
func (s *Service) ProduceBatch(ctx context.Context, urls []string, concurrency int) ([]model.LeadReport, []BatchError) {
	if concurrency < 1 {
		concurrency = 1
	}

	reports := make([]*model.LeadReport, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range urls {
		g.Go(func() error {
			report, err := s.ProduceReport(gctx, u)
			if err != nil {
				errs[i] = err
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	var (
		out    []model.LeadReport
		failed []BatchError
	)
	for i, u := range urls {
		if errs[i] != nil {
			failed = append(failed, BatchError{Index: i, URL: u, Err: errs[i]})
			continue
		}
		if reports[i] != nil {
			out = append(out, *reports[i])
		}
	}

	zap.L().Info("lead: batch complete",
		zap.Int("total", len(urls)),
		zap.Int("succeeded", len(out)),
		zap.Int("failed", len(failed)),
	)
	return out, failed
}
