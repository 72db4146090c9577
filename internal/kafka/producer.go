package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes order-created events through a buffered inbox so the
// order intake path never blocks on the broker.
type Producer struct {
	w      *kafka.Writer
	inbox  chan kafka.Message
	done   chan struct{}
	logger *zap.Logger
}

func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicOrderCreated,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:  make(chan kafka.Message, 256),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case m := <-p.inbox:
				if err := p.w.WriteMessages(context.Background(), m); err != nil {
					p.logger.Warn("publishing order event failed", zap.Error(err))
				}
			}
		}
	}()
}

// drain flushes whatever is still queued before the writer closes.
func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.logger.Warn("publishing order event failed", zap.Error(err))
			}
		default:
			if err := p.w.Close(); err != nil {
				p.logger.Warn("closing kafka writer failed", zap.Error(err))
			}
			return
		}
	}
}

// Wait blocks until the publish loop has drained and closed the writer.
func (p *Producer) Wait() {
	<-p.done
}

// PublishOrderCreated enqueues the event. Drops with a log line if the inbox
// is full; the scheduler's ticker covers any missed invalidation.
func (p *Producer) PublishOrderCreated(orderID, customerID string, orderDate time.Time) {
	event := NewOrderCreatedEvent(orderID, customerID, orderDate)
	payload, err := event.Marshal()
	if err != nil {
		p.logger.Warn("marshaling order event failed", zap.Error(err))
		return
	}

	select {
	case p.inbox <- kafka.Message{Key: []byte(customerID), Value: payload}:
	default:
		p.logger.Warn("order event inbox full, dropping event",
			zap.String("orderId", orderID))
	}
}
