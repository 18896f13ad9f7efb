package render

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-scout/internal/model"
)

// FileRenderer reads saved HTML from disk. It accepts file:// URLs and plain
// paths and is used for offline runs and fixtures.
type FileRenderer struct{}

// NewFileRenderer creates a FileRenderer.
func NewFileRenderer() *FileRenderer { return &FileRenderer{} }

func (f *FileRenderer) Name() string { return "file" }

func (f *FileRenderer) Render(ctx context.Context, target string) (*model.PageContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, newRenderError(f.Name(), target, eris.Wrap(err, "file: render"))
	}

	path := target
	base := target
	if strings.HasPrefix(target, "file://") {
		u, err := url.Parse(target)
		if err != nil {
			return nil, newRenderError(f.Name(), target, eris.Wrap(err, "file: parse url"))
		}
		path = u.Path
	} else if abs, err := filepath.Abs(target); err == nil {
		base = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newRenderError(f.Name(), target, eris.Wrapf(err, "file: read %s", path))
	}

	page := ParseHTML(target, base, string(raw))
	return &page, nil
}
