package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position status constants
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// RunningPnl maps a calendar date (YYYY-MM-DD) to the cumulative P&L that
// one position had contributed as of that date. Key sets differ across
// positions since each one marks P&L only for the dates it was live.
type RunningPnl map[string]decimal.Decimal

// Latest returns the value at the maximum date key. ISO date strings sort
// lexicographically in chronological order, so a plain string comparison
// is enough; map iteration order is never relied on.
func (r RunningPnl) Latest() (string, decimal.Decimal, bool) {
	var lastKey string
	var lastVal decimal.Decimal
	found := false
	for key, val := range r {
		if !found || key > lastKey {
			lastKey = key
			lastVal = val
			found = true
		}
	}
	return lastKey, lastVal, found
}

// Position represents one trade lifecycle, open or closed.
// ExitPrice, ExitTime and Pnl are meaningful only when Status is CLOSED.
type Position struct {
	ID         int             `json:"id"`
	TradeDate  time.Time       `json:"trade_date"`
	Symbol     string          `json:"stock_symbol"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	Qty        decimal.Decimal `json:"qty"`
	EntryTime  time.Time       `json:"entry_time"`
	Status     string          `json:"status"`
	ExitPrice  decimal.Decimal `json:"exit_price,omitempty"`
	ExitTime   *time.Time      `json:"exit_time,omitempty"`
	Pnl        decimal.Decimal `json:"pnl,omitempty"`
	RunningPnl RunningPnl      `json:"running_pnl"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// IsClosed reports whether the position has been exited
func (p *Position) IsClosed() bool {
	return p.Status == StatusClosed
}
