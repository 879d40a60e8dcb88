// Package stream moves aggregation results and analysis requests
// through kafka topics.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/types"
)

// Publisher emits fresh aggregation results to the result topic.
type Publisher struct {
	writer *kafka.Writer
}

var _ interfaces.Publisher = (*Publisher)(nil)

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Publisher{writer: writer}
}

// Publish sends one result keyed by ticker, so consumers see each
// ticker's results in order.
func (p *Publisher) Publish(ctx context.Context, res types.AggregateResult) error {
	value, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(res.Ticker),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write result to kafka: %w", err)
	}

	logger.Debug(ctx, "Published result", "ticker", res.Ticker, "suggestion", res.Suggestion)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
