package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-scout/internal/config"
	"github.com/sells-group/lead-scout/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func sampleReport(url string, score int) model.LeadReport {
	return model.LeadReport{
		URL:          url,
		Title:        "Acme",
		Score:        score,
		Reasons:      "Modern tech stack, Has contact info",
		Tags:         "B2B",
		Emails:       "hi@acme.io",
		Headings:     []string{"Welcome"},
		SocialLinks:  map[string]string{"linkedin": "https://linkedin.com/company/acme"},
		TechKeywords: []string{"react"},
		AllLinks:     []string{"https://acme.io/pricing"},
	}
}

func TestSQLite_SaveAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SaveReport(ctx, sampleReport("https://acme.io", 8))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := st.GetReport(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, sampleReport("https://acme.io", 8), got.Report)
	assert.WithinDuration(t, saved.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLite_GetNotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListNewestFirst(t *testing.T) {
	st := newTestSQLiteStore(t)
	st.now = stepClock()
	ctx := context.Background()

	for i, u := range []string{"https://a.io", "https://b.io", "https://a.io"} {
		_, err := st.SaveReport(ctx, sampleReport(u, i))
		require.NoError(t, err)
	}

	all, err := st.ListReports(ctx, ReportFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{2, 1, 0}, []int{all[0].Report.Score, all[1].Report.Score, all[2].Report.Score})

	onlyA, err := st.ListReports(ctx, ReportFilter{URL: "https://a.io"})
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.Equal(t, 2, onlyA[0].Report.Score)

	page, err := st.ListReports(ctx, ReportFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 1, page[0].Report.Score)
}

func TestSQLite_ListEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.ListReports(context.Background(), ReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Migrate(context.Background()))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "h.db")})
	require.NoError(t, err)
	require.NotNil(t, s)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck

	_, err = s.SaveReport(ctx, sampleReport("https://acme.io", 3))
	assert.NoError(t, err)

	_, err = Open(ctx, config.StoreConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestReportFilterDefaults(t *testing.T) {
	assert.Equal(t, DefaultListLimit, ReportFilter{}.limit())
	assert.Equal(t, 5, ReportFilter{Limit: 5}.limit())
	assert.Equal(t, 0, ReportFilter{Offset: -3}.offset())
}
