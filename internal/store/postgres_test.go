package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock, now: stepClock()}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS lead_reports`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveReport(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	report := sampleReport("https://acme.io", 8)

	mock.ExpectExec(`INSERT INTO lead_reports`).
		WithArgs(pgxmock.AnyArg(), "https://acme.io", 8, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	saved, err := s.SaveReport(context.Background(), report)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, report, saved.Report)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveReport_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO lead_reports`).
		WillReturnError(errors.New("connection reset"))

	_, err := s.SaveReport(context.Background(), sampleReport("https://acme.io", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert report")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetReport(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	report := sampleReport("https://acme.io", 8)
	reportJSON, err := json.Marshal(report)
	require.NoError(t, err)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, report, created_at FROM lead_reports WHERE id = \$1`).
		WithArgs("r-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "report", "created_at"}).
			AddRow("r-1", reportJSON, created))

	got, err := s.GetReport(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", got.ID)
	assert.Equal(t, report, got.Report)
	assert.Equal(t, created, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetReport_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, report, created_at FROM lead_reports WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListReports(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	newer, _ := json.Marshal(sampleReport("https://acme.io", 5))
	older, _ := json.Marshal(sampleReport("https://acme.io", 2))
	t1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, report, created_at FROM lead_reports`).
		WithArgs("https://acme.io", 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "report", "created_at"}).
			AddRow("r-2", newer, t1).
			AddRow("r-1", older, t0))

	got, err := s.ListReports(context.Background(), ReportFilter{URL: "https://acme.io", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r-2", got[0].ID)
	assert.Equal(t, 5, got[0].Report.Score)
	assert.Equal(t, 2, got[1].Report.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListReports_DefaultLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, report, created_at FROM lead_reports`).
		WithArgs("", DefaultListLimit, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "report", "created_at"}))

	got, err := s.ListReports(context.Background(), ReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
