package analytics

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is returned when there is no aggregated P&L to compute
// statistics from. Callers render a placeholder report instead of failing.
var ErrEmptyDataset = errors.New("no position data available")

// MalformedRecordError marks a position record that cannot be processed,
// e.g. zero quantity on a row that needs a returns percentage, or a
// running_pnl key that is not a date. These are hard failures: emitting
// Inf/NaN would silently corrupt the report.
type MalformedRecordError struct {
	Symbol string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed position record %s: %s", e.Symbol, e.Reason)
}
