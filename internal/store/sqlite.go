package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/lead-scout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: utcNow}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lead_reports (
	id         TEXT PRIMARY KEY,
	url        TEXT NOT NULL,
	score      INTEGER NOT NULL,
	report     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_lead_reports_url ON lead_reports(url);
CREATE INDEX IF NOT EXISTS idx_lead_reports_created_at ON lead_reports(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveReport(ctx context.Context, report model.LeadReport) (*model.StoredReport, error) {
	id := uuid.New().String()
	now := s.now()

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal report")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lead_reports (id, url, score, report, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, report.URL, report.Score, string(reportJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert report")
	}

	return &model.StoredReport{ID: id, Report: report, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*model.StoredReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, report, created_at FROM lead_reports WHERE id = ?`, id,
	)
	sr, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get report %s", id)
	}
	return sr, nil
}

func (s *SQLiteStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.StoredReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report, created_at FROM lead_reports
		 WHERE (? = '' OR url = ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		filter.URL, filter.URL, filter.limit(), filter.offset(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.StoredReport
	for rows.Next() {
		sr, err := scanReport(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report")
		}
		out = append(out, *sr)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate reports")
}

type scannable interface {
	Scan(dest ...any) error
}

// scanReport reads (id, report JSON, created_at). Errors from Scan are
// returned unwrapped so callers can match sql.ErrNoRows / pgx.ErrNoRows.
func scanReport(row scannable) (*model.StoredReport, error) {
	var (
		sr         model.StoredReport
		reportJSON []byte
	)
	if err := row.Scan(&sr.ID, &reportJSON, &sr.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reportJSON, &sr.Report); err != nil {
		return nil, eris.Wrap(err, "unmarshal report")
	}
	sr.CreatedAt = sr.CreatedAt.UTC()
	return &sr, nil
}
