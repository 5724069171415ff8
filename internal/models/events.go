package models

// Kafka event type constants
const (
	EventPositionsSnapshot = "POSITIONS_SNAPSHOT"
	EventReportComputed    = "REPORT_COMPUTED"
)

// PositionsEvent is a full position snapshot published by the trading engine.
// Numeric fields arrive as strings and are parsed into decimals on ingest.
type PositionsEvent struct {
	EventType string             `json:"event_type"`
	Source    string             `json:"source"`
	Timestamp string             `json:"timestamp"`
	Data      PositionsEventData `json:"data"`
}

// PositionsEventData carries the snapshot payload
type PositionsEventData struct {
	Strategy  string         `json:"strategy"`
	Positions []PositionData `json:"positions"`
}

// PositionData is one position as serialized by the trading engine
type PositionData struct {
	TradeDate  string            `json:"trade_date"`
	Symbol     string            `json:"stock_symbol"`
	EntryPrice string            `json:"entry_price"`
	Qty        string            `json:"qty"`
	EntryTime  string            `json:"entry_time"`
	Status     string            `json:"status"`
	ExitPrice  string            `json:"exit_price,omitempty"`
	ExitTime   string            `json:"exit_time,omitempty"`
	Pnl        string            `json:"pnl,omitempty"`
	RunningPnl map[string]string `json:"running_pnl"`
}

// ReportEvent is the summary published after a report run
type ReportEvent struct {
	EventType string          `json:"event_type"`
	Strategy  string          `json:"strategy"`
	Timestamp string          `json:"timestamp"`
	Data      ReportEventData `json:"data"`
}

// ReportEventData carries the headline report scalars
type ReportEventData struct {
	NetProfit       string `json:"net_profit"`
	NetReturnsPct   string `json:"net_returns_pct"`
	RealizedPnl     string `json:"realized_pnl"`
	UnrealizedPnl   string `json:"unrealized_pnl"`
	MaxDrawdownPct  string `json:"max_drawdown_pct"`
	MaxDrawdownDays int    `json:"max_drawdown_days"`
	OpenPositions   int    `json:"open_positions"`
	ClosedPositions int    `json:"closed_positions"`
}
