// Package store persists produced lead reports as a browsable history.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-scout/internal/config"
	"github.com/sells-group/lead-scout/internal/model"
)

// DefaultListLimit caps ListReports when no limit is given.
const DefaultListLimit = 50

// ErrNotFound is returned by GetReport for an unknown ID.
var ErrNotFound = eris.New("store: report not found")

// ReportFilter specifies criteria for listing reports.
type ReportFilter struct {
	URL    string `json:"url,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

func (f ReportFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

func (f ReportFilter) offset() int {
	return max(f.Offset, 0)
}

// Store defines the persistence interface for report history.
type Store interface {
	SaveReport(ctx context.Context, report model.LeadReport) (*model.StoredReport, error)
	GetReport(ctx context.Context, id string) (*model.StoredReport, error)
	// ListReports returns reports newest first.
	ListReports(ctx context.Context, filter ReportFilter) ([]model.StoredReport, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open opens and migrates the store selected by cfg.Driver. It returns a
// nil Store for driver "none".
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "none", "":
		return nil, nil
	case "sqlite":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
