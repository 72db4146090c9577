package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processes one decoded order event.
type Handler func(ctx context.Context, event OrderCreatedEvent)

// Consumer reads order-created events and hands them to the priority
// scheduler as invalidation triggers. Offsets are committed regardless of
// handler outcome; a missed trigger is covered by the next ticker cycle.
type Consumer struct {
	r      *kafka.Reader
	logger *zap.Logger
}

func NewConsumer(brokers []string, groupID string, logger *zap.Logger) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    TopicOrderCreated,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		logger: logger,
	}
}

func (c *Consumer) Start(ctx context.Context, h Handler) {
	go func() {
		defer c.r.Close()
		for {
			m, err := c.r.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				c.logger.Warn("reading order event failed", zap.Error(err))
				continue
			}

			var event OrderCreatedEvent
			if err := json.Unmarshal(m.Value, &event); err != nil {
				c.logger.Warn("decoding order event failed", zap.Error(err))
				continue
			}

			h(ctx, event)
		}
	}()
}
