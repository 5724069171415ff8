package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/algoxlabs/bms-portfolio/internal/models"
)

// dateKeyLayout is the calendar-date format used by running_pnl keys.
const dateKeyLayout = "2006-01-02"

// EquityPoint is one row of the aggregated portfolio series: the portfolio
// cumulative P&L as of Date.
type EquityPoint struct {
	Date   time.Time       `json:"date"`
	CumPnl decimal.Decimal `json:"cum_pnl"`
}

// Aggregate outer-joins the per-position running P&L series of every record
// (open and closed alike) into one date-ascending portfolio series.
//
// Each record's series is treated independently, so a symbol that was
// re-entered after a close contributes once per trade lifecycle. A date
// absent from a record's series contributes zero on that date, so a closed
// position's final P&L is not carried forward past its close. Because each
// per-position value is already cumulative for that position, the sum
// across positions on a date is the portfolio cumulative P&L as of that
// date; no further cumulative sum over time is needed.
//
// An empty record set yields an empty series, not an error.
func Aggregate(positions []*models.Position) ([]EquityPoint, error) {
	totals := make(map[string]decimal.Decimal)
	for _, p := range positions {
		for key, val := range p.RunningPnl {
			if _, err := time.Parse(dateKeyLayout, key); err != nil {
				return nil, &MalformedRecordError{
					Symbol: p.Symbol,
					Reason: fmt.Sprintf("running_pnl key %q is not a calendar date", key),
				}
			}
			totals[key] = totals[key].Add(val)
		}
	}

	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]EquityPoint, 0, len(keys))
	for _, key := range keys {
		date, _ := time.Parse(dateKeyLayout, key)
		series = append(series, EquityPoint{Date: date, CumPnl: totals[key]})
	}
	return series, nil
}
