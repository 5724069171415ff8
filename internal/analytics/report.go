package analytics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/algoxlabs/bms-portfolio/internal/models"
)

// Config carries the strategy constants the report depends on
type Config struct {
	StrategyName   string
	InitialCapital decimal.Decimal
	InceptionDate  time.Time
}

// BuildReport runs the full pipeline (classifier, aggregator, drawdown
// engine) over a snapshot of position records and assembles the report.
// The computation is pure: the same snapshot and clock always produce the
// same report.
//
// An empty aggregated series produces Report{HasData: false} with zero
// scalar groups; every other error propagates to the caller.
func BuildReport(positions []*models.Position, cfg Config, now time.Time) (*models.Report, error) {
	open, closed, err := Classify(positions)
	if err != nil {
		return nil, err
	}

	series, err := Aggregate(positions)
	if err != nil {
		return nil, err
	}

	realized := decimal.Zero
	for _, p := range positions {
		if p.IsClosed() {
			realized = realized.Add(p.Pnl)
		}
	}

	report := &models.Report{
		GeneratedAt:     now,
		Strategy:        cfg.StrategyName,
		EquityCurve:     []models.CurvePoint{},
		DrawdownCurve:   []models.CurvePoint{},
		OpenPositions:   open,
		ClosedPositions: closed,
	}
	report.Capital.InitialCapital = cfg.InitialCapital
	report.Drawdown.DaysSinceInception = daysBetween(cfg.InceptionDate, now)

	stats, err := ComputeDrawdowns(series, cfg.InitialCapital)
	if errors.Is(err, ErrEmptyDataset) {
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	report.HasData = true
	report.Capital.NetProfit = stats.NetProfit
	report.Capital.NetReturnsPct = pct(stats.NetProfit, cfg.InitialCapital)

	report.Pnl.RealizedPnl = realized
	// The identity net = realized + unrealized holds exactly because
	// unrealized is defined as the difference.
	report.Pnl.UnrealizedPnl = stats.NetProfit.Sub(realized)
	report.Pnl.RealizedReturnsPct = pct(realized, cfg.InitialCapital)

	report.Drawdown.MaxDrawdownPct = stats.MaxDrawdownPct
	report.Drawdown.MaxDrawdownDays = stats.MaxDrawdownDays

	for _, row := range stats.Rows {
		report.EquityCurve = append(report.EquityCurve, models.CurvePoint{Date: row.Date, Value: row.CumPnlPct})
		report.DrawdownCurve = append(report.DrawdownCurve, models.CurvePoint{Date: row.Date, Value: row.DrawdownPct})
	}

	return report, nil
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
