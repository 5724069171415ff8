package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoxlabs/bms-portfolio/internal/models"
)

func testConfig() Config {
	return Config{
		StrategyName:   "bullet-momentum",
		InitialCapital: decimal.NewFromInt(1000000),
		InceptionDate:  time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2023, 7, 10, 12, 0, 0, 0, time.UTC)

	t.Run("net profit splits exactly into realized and unrealized", func(t *testing.T) {
		positions := []*models.Position{
			{Symbol: "A", Status: models.StatusClosed, EntryPrice: dec("100"), Qty: dec("10"),
				ExitPrice: dec("115"), Pnl: dec("150"),
				RunningPnl: pnl(map[string]string{"2023-07-03": "100", "2023-07-04": "150"})},
			{Symbol: "B", Status: models.StatusOpen, EntryPrice: dec("200"), Qty: dec("5"),
				RunningPnl: pnl(map[string]string{"2023-07-04": "-30", "2023-07-05": "20"})},
		}

		report, err := BuildReport(positions, testConfig(), now)
		require.NoError(t, err)
		require.True(t, report.HasData)

		// Last aggregated date is 07-05: A fully closed contributes zero,
		// B marks 20, so net profit is 20 and unrealized is 20-150.
		assert.True(t, report.Capital.NetProfit.Equal(dec("20")), "got %s", report.Capital.NetProfit)
		assert.True(t, report.Pnl.RealizedPnl.Equal(dec("150")))
		assert.True(t, report.Pnl.UnrealizedPnl.Equal(dec("-130")))
		assert.True(t, report.Capital.NetProfit.Equal(report.Pnl.RealizedPnl.Add(report.Pnl.UnrealizedPnl)))
	})

	t.Run("curves carry one labeled point per aggregated date", func(t *testing.T) {
		positions := []*models.Position{
			{Symbol: "A", Status: models.StatusOpen, EntryPrice: dec("10"), Qty: dec("1"),
				RunningPnl: pnl(map[string]string{"2023-07-03": "10000", "2023-07-04": "5000", "2023-07-05": "12000"})},
		}

		report, err := BuildReport(positions, testConfig(), now)
		require.NoError(t, err)
		require.Len(t, report.EquityCurve, 3)
		require.Len(t, report.DrawdownCurve, 3)

		assert.True(t, report.EquityCurve[0].Value.Equal(dec("1")), "got %s", report.EquityCurve[0].Value)
		assert.True(t, report.DrawdownCurve[1].Value.Equal(dec("-0.5")), "got %s", report.DrawdownCurve[1].Value)
		assert.True(t, report.DrawdownCurve[2].Value.IsZero())
	})

	t.Run("days since inception counts whole days", func(t *testing.T) {
		positions := []*models.Position{
			{Symbol: "A", Status: models.StatusOpen, EntryPrice: dec("10"), Qty: dec("1"),
				RunningPnl: pnl(map[string]string{"2023-07-03": "1"})},
		}

		report, err := BuildReport(positions, testConfig(), now)
		require.NoError(t, err)
		// 2023-06-05 -> 2023-07-10 noon is 35 days and a half.
		assert.Equal(t, 35, report.Drawdown.DaysSinceInception)
	})

	t.Run("empty dataset degrades to a placeholder report", func(t *testing.T) {
		report, err := BuildReport(nil, testConfig(), now)
		require.NoError(t, err)

		assert.False(t, report.HasData)
		assert.True(t, report.Capital.InitialCapital.Equal(dec("1000000")))
		assert.True(t, report.Capital.NetProfit.IsZero())
		assert.Empty(t, report.EquityCurve)
		assert.Empty(t, report.DrawdownCurve)
		assert.Empty(t, report.OpenPositions)
		assert.Empty(t, report.ClosedPositions)
	})

	t.Run("malformed record fails the whole run", func(t *testing.T) {
		positions := []*models.Position{
			{Symbol: "BAD", Status: models.StatusClosed, EntryPrice: dec("10"), Qty: dec("0"), Pnl: dec("1")},
		}

		_, err := BuildReport(positions, testConfig(), now)
		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
	})

	t.Run("rerun on an unchanged snapshot is identical", func(t *testing.T) {
		positions := []*models.Position{
			{Symbol: "A", Status: models.StatusClosed, EntryPrice: dec("100"), Qty: dec("10"),
				ExitPrice: dec("115"), Pnl: dec("150"),
				RunningPnl: pnl(map[string]string{"2023-07-03": "100", "2023-07-04": "150"})},
			{Symbol: "B", Status: models.StatusOpen, EntryPrice: dec("200"), Qty: dec("5"),
				RunningPnl: pnl(map[string]string{"2023-07-04": "-30", "2023-07-05": "20"})},
		}

		first, err := BuildReport(positions, testConfig(), now)
		require.NoError(t, err)
		second, err := BuildReport(positions, testConfig(), now)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
