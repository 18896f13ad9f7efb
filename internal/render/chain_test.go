package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-scout/internal/model"
)

type stubRenderer struct {
	name  string
	html  string
	err   error
	calls int
}

func (s *stubRenderer) Name() string { return s.name }

func (s *stubRenderer) Render(_ context.Context, url string) (*model.PageContent, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &model.PageContent{URL: url, Title: s.name, RawHTML: s.html}, nil
}

var richHTML = "<html><body><p>" + strings.Repeat("content ", 100) + "</p></body></html>"

const thinHTML = `<html><body><div id="app"></div></body></html>`

func TestChain_FirstRichPageWins(t *testing.T) {
	first := &stubRenderer{name: "http", html: richHTML}
	second := &stubRenderer{name: "chrome", html: richHTML}

	page, err := NewChain(500, first, second).Render(context.Background(), "https://acme.io")
	require.NoError(t, err)
	assert.Equal(t, "http", page.Title)
	assert.Equal(t, 0, second.calls)
}

func TestChain_ThinPageFallsBack(t *testing.T) {
	first := &stubRenderer{name: "http", html: thinHTML}
	second := &stubRenderer{name: "chrome", html: richHTML}

	page, err := NewChain(500, first, second).Render(context.Background(), "https://acme.io")
	require.NoError(t, err)
	assert.Equal(t, "chrome", page.Title)
}

func TestChain_LastRendererAcceptedEvenIfThin(t *testing.T) {
	first := &stubRenderer{name: "http", err: errors.New("http: fetch: refused")}
	second := &stubRenderer{name: "chrome", html: thinHTML}

	page, err := NewChain(500, first, second).Render(context.Background(), "https://acme.io")
	require.NoError(t, err)
	assert.Equal(t, "chrome", page.Title)
}

func TestChain_ThinPageKeptWhenFallbacksFail(t *testing.T) {
	first := &stubRenderer{name: "http", html: thinHTML}
	second := &stubRenderer{name: "chrome", err: errors.New("chrome: no browser")}

	page, err := NewChain(500, first, second).Render(context.Background(), "https://acme.io")
	require.NoError(t, err)
	assert.Equal(t, "http", page.Title)
}

func TestChain_AllFail(t *testing.T) {
	first := &stubRenderer{name: "http", err: errors.New("http: fetch: refused")}
	second := &stubRenderer{name: "chrome", err: errors.New("chrome: no browser")}

	_, err := NewChain(500, first, second).Render(context.Background(), "https://acme.io")
	require.Error(t, err)
	assert.True(t, IsRenderError(err))
	assert.Equal(t, "chrome: no browser", err.Error())
}

func TestChain_PreservesInnerRenderError(t *testing.T) {
	inner := &RenderError{URL: "https://acme.io", Renderer: "http", Err: errors.New("no such host")}
	_, err := NewChain(500, &stubRenderer{name: "http", err: inner}).Render(context.Background(), "https://acme.io")

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Same(t, inner, re)
}

func TestChain_Empty(t *testing.T) {
	_, err := NewChain(500).Render(context.Background(), "https://acme.io")
	require.Error(t, err)
	assert.True(t, IsRenderError(err))
}

func TestRenderError(t *testing.T) {
	base := errors.New("net::ERR_NAME_NOT_RESOLVED")
	err := newRenderError("chrome", "https://nope.invalid", base)

	assert.Equal(t, "net::ERR_NAME_NOT_RESOLVED", err.Error())
	assert.ErrorIs(t, err, base)
	assert.True(t, IsRenderError(err))
	assert.False(t, IsRenderError(base))
	assert.NoError(t, newRenderError("chrome", "x", nil))
}
