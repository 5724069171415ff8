package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CapitalSummary groups the capital and net profit scalars
type CapitalSummary struct {
	InitialCapital decimal.Decimal `json:"initial_capital"`
	NetProfit      decimal.Decimal `json:"net_profit"`
	NetReturnsPct  decimal.Decimal `json:"net_returns_pct"`
}

// PnlSummary groups the realized/unrealized split
type PnlSummary struct {
	RealizedPnl        decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnl      decimal.Decimal `json:"unrealized_pnl"`
	RealizedReturnsPct decimal.Decimal `json:"realized_returns_pct"`
}

// DrawdownSummary groups the drawdown scalars
type DrawdownSummary struct {
	MaxDrawdownPct     decimal.Decimal `json:"max_drawdown_pct"`
	MaxDrawdownDays    int             `json:"max_drawdown_days"`
	DaysSinceInception int             `json:"days_since_inception"`
}

// CurvePoint is one labeled point of a report time series
type CurvePoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// OpenPositionRow is an open position with its derived economics
type OpenPositionRow struct {
	TradeDate         time.Time       `json:"trade_date"`
	Symbol            string          `json:"stock_symbol"`
	EntryPrice        decimal.Decimal `json:"entry_price"`
	Qty               decimal.Decimal `json:"qty"`
	EntryTime         time.Time       `json:"entry_time"`
	BuyValue          decimal.Decimal `json:"buy_value"`
	RunningPnl        decimal.Decimal `json:"running_pnl"`
	RunningReturnsPct decimal.Decimal `json:"running_returns_pct"`
}

// ClosedPositionRow is a closed position with its derived economics
type ClosedPositionRow struct {
	TradeDate  time.Time       `json:"trade_date"`
	Symbol     string          `json:"stock_symbol"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	ExitPrice  decimal.Decimal `json:"exit_price"`
	ExitTime   *time.Time      `json:"exit_time,omitempty"`
	Qty        decimal.Decimal `json:"qty"`
	Pnl        decimal.Decimal `json:"pnl"`
	BuyValue   decimal.Decimal `json:"buy_value"`
	SellValue  decimal.Decimal `json:"sell_value"`
	ReturnsPct decimal.Decimal `json:"returns_pct"`
}

// Report is the full per-run output of the analytics pipeline.
// HasData is false when no position has marked any P&L yet; scalar groups
// and curves are zero-valued in that case and consumers render a
// placeholder state instead of failing.
type Report struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	Strategy        string              `json:"strategy"`
	HasData         bool                `json:"has_data"`
	Capital         CapitalSummary      `json:"capital"`
	Pnl             PnlSummary          `json:"pnl"`
	Drawdown        DrawdownSummary     `json:"drawdown"`
	EquityCurve     []CurvePoint        `json:"equity_curve"`
	DrawdownCurve   []CurvePoint        `json:"drawdown_curve"`
	OpenPositions   []OpenPositionRow   `json:"open_positions"`
	ClosedPositions []ClosedPositionRow `json:"closed_positions"`
}
