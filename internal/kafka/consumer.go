package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/algoxlabs/bms-portfolio/internal/models"
)

// PositionRepository defines the interface for position database operations
type PositionRepository interface {
	ReplaceAllPositions(positions []*models.Position) error
}

// Reader abstracts the kafka reader so the consumer can be tested without
// a broker
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
	Config() kafka.ReaderConfig
}

// PositionsConsumer consumes full position snapshots published by the
// trading engine and replaces the stored set wholesale. The service never
// mutates positions itself; the snapshot stream is the single source of
// position state.
type PositionsConsumer struct {
	reader Reader
	repo   PositionRepository
	logger zerolog.Logger
}

// NewPositionsConsumer creates a Kafka consumer for position snapshots
func NewPositionsConsumer(brokers []string, topic, groupID string, repo PositionRepository, logger zerolog.Logger) *PositionsConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
	})

	return &PositionsConsumer{
		reader: reader,
		repo:   repo,
		logger: logger.With().Str("component", "positions-consumer").Logger(),
	}
}

// Start begins consuming messages from Kafka
func (c *PositionsConsumer) Start(ctx context.Context) error {
	c.logger.Info().Str("topic", c.reader.Config().Topic).Msg("starting positions consumer")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("positions consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				c.logger.Error().Err(err).Msg("failed to read message")
				continue
			}

			if err := c.processMessage(msg); err != nil {
				c.logger.Error().Err(err).Msg("failed to process message")
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *PositionsConsumer) processMessage(msg kafka.Message) error {
	var event models.PositionsEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal positions event: %w", err)
	}

	if event.EventType != models.EventPositionsSnapshot {
		c.logger.Debug().Str("event_type", event.EventType).Msg("ignoring event")
		return nil
	}

	positions := make([]*models.Position, 0, len(event.Data.Positions))
	for _, data := range event.Data.Positions {
		p, err := convertPosition(data)
		if err != nil {
			return fmt.Errorf("failed to convert position %s: %w", data.Symbol, err)
		}
		positions = append(positions, p)
	}

	if err := c.repo.ReplaceAllPositions(positions); err != nil {
		return fmt.Errorf("failed to replace positions: %w", err)
	}

	c.logger.Info().
		Str("source", event.Source).
		Int("positions", len(positions)).
		Msg("applied position snapshot")
	return nil
}

// convertPosition maps the stringly-typed event payload to a Position
func convertPosition(data models.PositionData) (*models.Position, error) {
	status := strings.ToUpper(data.Status)
	if status != models.StatusOpen && status != models.StatusClosed {
		return nil, fmt.Errorf("invalid status: %s", data.Status)
	}

	tradeDate, err := time.Parse("2006-01-02", data.TradeDate)
	if err != nil {
		return nil, fmt.Errorf("invalid trade_date %s: %w", data.TradeDate, err)
	}

	entryPrice, err := decimal.NewFromString(data.EntryPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid entry_price %s: %w", data.EntryPrice, err)
	}

	qty, err := decimal.NewFromString(data.Qty)
	if err != nil {
		return nil, fmt.Errorf("invalid qty %s: %w", data.Qty, err)
	}

	entryTime, err := parseTimestamp(data.EntryTime)
	if err != nil {
		return nil, fmt.Errorf("invalid entry_time %s: %w", data.EntryTime, err)
	}

	runningPnl := make(models.RunningPnl, len(data.RunningPnl))
	for date, value := range data.RunningPnl {
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid running_pnl value %s for %s: %w", value, date, err)
		}
		runningPnl[date] = parsed
	}

	p := &models.Position{
		TradeDate:  tradeDate,
		Symbol:     data.Symbol,
		EntryPrice: entryPrice,
		Qty:        qty,
		EntryTime:  entryTime,
		Status:     status,
		RunningPnl: runningPnl,
	}

	if status == models.StatusClosed {
		exitPrice, err := decimal.NewFromString(data.ExitPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid exit_price %s: %w", data.ExitPrice, err)
		}
		pnl, err := decimal.NewFromString(data.Pnl)
		if err != nil {
			return nil, fmt.Errorf("invalid pnl %s: %w", data.Pnl, err)
		}
		exitTime, err := parseTimestamp(data.ExitTime)
		if err != nil {
			return nil, fmt.Errorf("invalid exit_time %s: %w", data.ExitTime, err)
		}
		p.ExitPrice = exitPrice
		p.Pnl = pnl
		p.ExitTime = &exitTime
	}

	return p, nil
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Try parsing without timezone
		ts, err = time.Parse("2006-01-02T15:04:05", value)
		if err != nil {
			return time.Time{}, err
		}
	}
	return ts, nil
}

// Close closes the Kafka consumer
func (c *PositionsConsumer) Close() error {
	return c.reader.Close()
}
