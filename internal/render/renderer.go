// Package render fetches a URL and returns the rendered page for signal
// extraction. Implementations range from a plain HTTP fetch to headless
// Chrome; all of them release their resources before returning.
package render

import (
	"context"
	"errors"

	"github.com/sells-group/lead-scout/internal/model"
)

// Renderer fetches and renders a single URL.
type Renderer interface {
	Render(ctx context.Context, url string) (*model.PageContent, error)
	Name() string
}

// RenderError reports that a page could not be retrieved or rendered.
// Its message is the underlying failure, unchanged, so it can be shown to
// users as is.
type RenderError struct {
	URL      string
	Renderer string
	Err      error
}

func (e *RenderError) Error() string {
	return e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// newRenderError wraps err unless it already is a RenderError.
func newRenderError(renderer, url string, err error) error {
	if err == nil {
		return nil
	}
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}
	return &RenderError{URL: url, Renderer: renderer, Err: err}
}

// IsRenderError reports whether err is, or wraps, a RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
