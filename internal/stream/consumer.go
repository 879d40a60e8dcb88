package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/types"
)

// Consumer delivers analysis requests from the request topic to a
// handler as part of a consumer group.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, group string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  group,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		MaxWait:  1 * time.Second,
	})
	return &Consumer{reader: reader}
}

// Run blocks until ctx is canceled, invoking handle for every request.
// Offsets are committed after handling; malformed messages are
// committed and skipped so a poison message cannot wedge the group.
func (c *Consumer) Run(ctx context.Context, handle func(context.Context, types.AnalysisRequest)) {
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Request consumer shutting down")
			return

		default:
			m, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.ErrorWithErr(ctx, "Fetching request message failed", err)
				time.Sleep(time.Second)
				continue
			}

			var req types.AnalysisRequest
			if err := json.Unmarshal(m.Value, &req); err != nil {
				logger.Warn(ctx, "Skipping malformed request message", "error", err, "value", string(m.Value))
				if err := c.reader.CommitMessages(ctx, m); err != nil {
					logger.ErrorWithErr(ctx, "Committing offset failed", err)
				}
				continue
			}

			handle(ctx, req)

			if err := c.reader.CommitMessages(ctx, m); err != nil {
				logger.ErrorWithErr(ctx, "Committing offset failed", err)
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
