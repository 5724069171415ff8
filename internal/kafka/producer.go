package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/algoxlabs/bms-portfolio/internal/models"
)

// Producer handles publishing events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishReportComputed publishes the headline scalars of a computed report
func (p *Producer) PublishReportComputed(ctx context.Context, report *models.Report) error {
	event := models.ReportEvent{
		EventType: models.EventReportComputed,
		Strategy:  report.Strategy,
		Timestamp: report.GeneratedAt.Format(time.RFC3339),
		Data: models.ReportEventData{
			NetProfit:       report.Capital.NetProfit.String(),
			NetReturnsPct:   report.Capital.NetReturnsPct.String(),
			RealizedPnl:     report.Pnl.RealizedPnl.String(),
			UnrealizedPnl:   report.Pnl.UnrealizedPnl.String(),
			MaxDrawdownPct:  report.Drawdown.MaxDrawdownPct.String(),
			MaxDrawdownDays: report.Drawdown.MaxDrawdownDays,
			OpenPositions:   len(report.OpenPositions),
			ClosedPositions: len(report.ClosedPositions),
		},
	}
	return p.publish(ctx, report.Strategy, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.ReportEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
