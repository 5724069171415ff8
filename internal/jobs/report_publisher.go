package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/algoxlabs/bms-portfolio/internal/analytics"
	"github.com/algoxlabs/bms-portfolio/internal/models"
)

// PositionLoader supplies the position snapshot for a scheduled run
type PositionLoader interface {
	GetAllPositions() ([]*models.Position, error)
}

// ReportSink receives the computed report summary
type ReportSink interface {
	PublishReportComputed(ctx context.Context, report *models.Report) error
}

// ReportPublisher recomputes the portfolio report on a schedule and
// publishes the headline scalars for downstream consumers. Failures are
// logged and retried on the next tick, never fatal.
type ReportPublisher struct {
	loader PositionLoader
	sink   ReportSink
	cfg    analytics.Config
	cron   *cron.Cron
	spec   string
	logger zerolog.Logger
}

// NewReportPublisher creates a scheduled report publisher
func NewReportPublisher(loader PositionLoader, sink ReportSink, cfg analytics.Config, spec string, logger zerolog.Logger) *ReportPublisher {
	return &ReportPublisher{
		loader: loader,
		sink:   sink,
		cfg:    cfg,
		cron:   cron.New(),
		spec:   spec,
		logger: logger.With().Str("component", "report-publisher").Logger(),
	}
}

// Start registers the cron entry and begins the schedule
func (j *ReportPublisher) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.Run); err != nil {
		return fmt.Errorf("failed to schedule report publisher: %w", err)
	}
	j.cron.Start()
	j.logger.Info().Str("schedule", j.spec).Msg("report publisher started")
	return nil
}

// Stop halts the schedule and waits for a running job to finish
func (j *ReportPublisher) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Run executes one publish cycle
func (j *ReportPublisher) Run() {
	positions, err := j.loader.GetAllPositions()
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to load positions")
		return
	}

	report, err := analytics.BuildReport(positions, j.cfg, time.Now())
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to build report")
		return
	}
	if !report.HasData {
		j.logger.Info().Msg("no position data yet, skipping publish")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := j.sink.PublishReportComputed(ctx, report); err != nil {
		j.logger.Error().Err(err).Msg("failed to publish report summary")
		return
	}

	j.logger.Info().
		Str("net_profit", report.Capital.NetProfit.String()).
		Str("max_drawdown_pct", report.Drawdown.MaxDrawdownPct.String()).
		Msg("published report summary")
}
