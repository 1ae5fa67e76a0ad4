// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/bills"
	"github.com/FACorreiaa/mansion-ledger/internal/source"
)

// Scheduler manages the unattended Horganice report refresh using
// robfig/cron. Bank statements stay manual since every statement needs an
// operator-supplied account code.
type Scheduler struct {
	cron       *cron.Cron
	billSvc    *bills.Service
	reportDir  string
	reportSpec string
	logger     *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(billSvc *bills.Service, reportDir, reportSpec string, logger *slog.Logger) *Scheduler {
	// Standard 5-field cron format, no seconds.
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:       c,
		billSvc:    billSvc,
		reportDir:  reportDir,
		reportSpec: reportSpec,
		logger:     logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.reportSpec, s.importNewestReport)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("report_spec", s.reportSpec),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the report import (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.importNewestReport()
}

// importNewestReport picks the most recent report in the drop directory
// and upserts it. The upsert is idempotent, so re-importing an unchanged
// file only refreshes existing rows.
func (s *Scheduler) importNewestReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	path, err := source.Newest(s.reportDir, ".xlsx", ".xls")
	if err != nil {
		if errors.Is(err, source.ErrNoSourceFile) {
			s.logger.Info("no report to import", slog.String("dir", s.reportDir))
			return
		}
		s.logger.Error("failed to locate report", slog.Any("error", err))
		return
	}

	summary, err := s.billSvc.ImportFile(ctx, path)
	if err != nil {
		s.logger.Error("scheduled report import failed",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("scheduled report import completed",
		slog.String("path", path),
		slog.String("month", summary.Month),
		slog.Int("inserted", summary.Inserted),
		slog.Int("updated", summary.Updated),
	)
}
