package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// pct returns value*100/base rounded to two decimal places. Every report
// percentage goes through here so the rounding mode stays uniform:
// decimal.Round rounds half away from zero.
func pct(value, base decimal.Decimal) decimal.Decimal {
	return value.Mul(hundred).Div(base).Round(2)
}

// CurveRow is one date of the drawdown computation. Drawdown is always
// non-positive. DrawdownDays counts the consecutive dates spent strictly
// below the running peak, ending at this row inclusive; it resets to zero
// on any date that matches or makes a new peak.
type CurveRow struct {
	Date         time.Time       `json:"date"`
	CumPnl       decimal.Decimal `json:"cum_pnl"`
	CumPnlPct    decimal.Decimal `json:"cum_pnl_pct"`
	RunningMax   decimal.Decimal `json:"running_max"`
	Drawdown     decimal.Decimal `json:"drawdown"`
	DrawdownPct  decimal.Decimal `json:"drawdown_pct"`
	DrawdownDays int             `json:"drawdown_days"`
}

// DrawdownStats holds the per-date curve plus the scalar outputs derived
// from it.
type DrawdownStats struct {
	Rows            []CurveRow
	NetProfit       decimal.Decimal
	MaxDrawdownPct  decimal.Decimal
	MaxDrawdownDays int
}

// ComputeDrawdowns derives cumulative returns, running peak, drawdown and
// drawdown run length from an aggregated series sorted by date ascending.
// Monetary values keep full decimal precision; only percentages are
// rounded. An empty series returns ErrEmptyDataset rather than ever
// indexing into it.
func ComputeDrawdowns(series []EquityPoint, initialCapital decimal.Decimal) (*DrawdownStats, error) {
	if len(series) == 0 {
		return nil, ErrEmptyDataset
	}
	if !initialCapital.IsPositive() {
		return nil, fmt.Errorf("initial capital must be positive, got %s", initialCapital)
	}

	stats := &DrawdownStats{Rows: make([]CurveRow, len(series))}
	runningMax := series[0].CumPnl
	runLen := 0

	for i, point := range series {
		if point.CumPnl.GreaterThan(runningMax) {
			runningMax = point.CumPnl
		}
		drawdown := point.CumPnl.Sub(runningMax)
		if drawdown.IsZero() {
			runLen = 0
		} else {
			runLen++
		}

		row := CurveRow{
			Date:         point.Date,
			CumPnl:       point.CumPnl,
			CumPnlPct:    pct(point.CumPnl, initialCapital),
			RunningMax:   runningMax,
			Drawdown:     drawdown,
			DrawdownPct:  pct(drawdown, initialCapital),
			DrawdownDays: runLen,
		}
		stats.Rows[i] = row

		if i == 0 || row.DrawdownPct.LessThan(stats.MaxDrawdownPct) {
			stats.MaxDrawdownPct = row.DrawdownPct
		}
		if runLen > stats.MaxDrawdownDays {
			stats.MaxDrawdownDays = runLen
		}
	}

	stats.NetProfit = stats.Rows[len(stats.Rows)-1].CumPnl
	return stats, nil
}
