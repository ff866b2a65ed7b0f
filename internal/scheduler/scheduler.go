package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// ReportGenerator builds (and archives) the daily report text.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context) (string, error)
}

// Sender delivers the report to the manager.
type Sender interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler runs the daily report job.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reports   ReportGenerator
	sender    Sender
	managerID string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler firing in cfg.Timezone. sender may be nil, in
// which case the report is only generated and archived.
func NewScheduler(cfg config.ReportingConfig, managerID string, reports ReportGenerator, sender Sender, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  cfg.CronSchedule,
		reports:   reports,
		sender:    sender,
		managerID: managerID,
		logger:    logger,
	}, nil
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runJob); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunDailyReport(ctx); err != nil {
		s.logger.Error("daily report job failed", zap.Error(err))
	}
}

// RunDailyReport generates the report and sends it to the manager when a sender
// and recipient are configured.
func (s *Scheduler) RunDailyReport(ctx context.Context) error {
	s.logger.Info("generating daily report")

	report, err := s.reports.GenerateDailyReport(ctx)
	if err != nil {
		return fmt.Errorf("generate daily report: %w", err)
	}

	if s.sender == nil || s.managerID == "" {
		s.logger.Info("daily report generated, no recipient configured")
		return nil
	}

	req := models.OutboundMessageRequest{
		To:      s.managerID,
		Message: report,
	}
	if err := s.sender.SendOutbound(ctx, req); err != nil {
		return fmt.Errorf("send daily report: %w", err)
	}

	s.logger.Info("daily report sent", zap.String("to", s.managerID))
	return nil
}
