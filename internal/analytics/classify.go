package analytics

import (
	"github.com/algoxlabs/bms-portfolio/internal/models"
)

// Classify partitions position records by status and computes the
// per-position economics for each table: buy value on both, sell value and
// realized returns on closed rows, latest running P&L and mark-to-market
// returns on open rows. The stored pnl field is trusted for closed rows;
// it is never re-derived from the running series.
//
// A zero quantity or a zero buy value makes the returns percentages a
// division by zero and marks a corrupt record, so it fails the whole run.
func Classify(positions []*models.Position) ([]models.OpenPositionRow, []models.ClosedPositionRow, error) {
	open := make([]models.OpenPositionRow, 0)
	closed := make([]models.ClosedPositionRow, 0)

	for _, p := range positions {
		if p.Qty.IsZero() {
			return nil, nil, &MalformedRecordError{Symbol: p.Symbol, Reason: "qty is zero"}
		}
		buyValue := p.EntryPrice.Mul(p.Qty)
		if buyValue.IsZero() {
			return nil, nil, &MalformedRecordError{Symbol: p.Symbol, Reason: "buy value is zero"}
		}

		if p.IsClosed() {
			closed = append(closed, models.ClosedPositionRow{
				TradeDate:  p.TradeDate,
				Symbol:     p.Symbol,
				EntryPrice: p.EntryPrice,
				ExitPrice:  p.ExitPrice,
				ExitTime:   p.ExitTime,
				Qty:        p.Qty,
				Pnl:        p.Pnl,
				BuyValue:   buyValue,
				SellValue:  p.ExitPrice.Mul(p.Qty),
				ReturnsPct: pct(p.Pnl, buyValue),
			})
			continue
		}

		// Latest is selected by max date key, never by map order. An open
		// position that has not marked any P&L yet contributes zero.
		_, latest, _ := p.RunningPnl.Latest()
		open = append(open, models.OpenPositionRow{
			TradeDate:         p.TradeDate,
			Symbol:            p.Symbol,
			EntryPrice:        p.EntryPrice,
			Qty:               p.Qty,
			EntryTime:         p.EntryTime,
			BuyValue:          buyValue,
			RunningPnl:        latest,
			RunningReturnsPct: pct(latest, buyValue),
		})
	}

	return open, closed, nil
}
