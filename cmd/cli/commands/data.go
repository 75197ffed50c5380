package commands

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/velofit/studio-optimizer/pkg/core/history"
	"github.com/velofit/studio-optimizer/pkg/core/model"
	"github.com/velofit/studio-optimizer/pkg/core/schedule"
	"github.com/velofit/studio-optimizer/pkg/ingest"
)

// loadSessions reads session history from the configured source: the
// Postgres store when source is "db", otherwise the CSV export.
func loadSessions(app *AppContext, source string) ([]model.SessionRecord, error) {
	if source == "db" {
		db, err := app.Store()
		if err != nil {
			return nil, err
		}
		return db.ListSessions(app.Ctx)
	}

	f, err := os.Open(app.Cfg.HistoryCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to open history csv: %w", err)
	}
	defer f.Close()

	records, skipped, err := ingest.ParseHistory(f)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		app.Logger.Warn("Skipped malformed history rows", zap.Int("rows", len(skipped)))
	}
	return records, nil
}

// loadSlots reads the active schedule and derives metric-bearing slots.
func loadSlots(app *AppContext, sessions []model.SessionRecord) ([]model.ScheduleSlot, error) {
	f, err := os.Open(app.Cfg.ScheduleFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open schedule file: %w", err)
	}
	defer f.Close()

	entries, err := ingest.ParseSchedule(f)
	if err != nil {
		return nil, err
	}

	return schedule.DeriveSlots(entries, sessions, history.Filter{}, time.Now())
}

// fileDataSource adapts the configured files to the server's DataSource.
type fileDataSource struct {
	app    *AppContext
	source string
}

func (fs *fileDataSource) Sessions() ([]model.SessionRecord, error) {
	return loadSessions(fs.app, fs.source)
}

func (fs *fileDataSource) ScheduleEntries() ([]schedule.Entry, error) {
	f, err := os.Open(fs.app.Cfg.ScheduleFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open schedule file: %w", err)
	}
	defer f.Close()
	return ingest.ParseSchedule(f)
}
