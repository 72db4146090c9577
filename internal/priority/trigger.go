package priority

import "time"

// OrderEventPublisher is satisfied by the Kafka producer; nil when Kafka is
// not configured.
type OrderEventPublisher interface {
	PublishOrderCreated(orderID, customerID string, orderDate time.Time)
}

// OrderCreatedFanout receives order-created signals from the order intake
// flow and turns them into a sync trigger plus an optional Kafka event.
type OrderCreatedFanout struct {
	scheduler *Scheduler
	publisher OrderEventPublisher
}

func NewOrderCreatedFanout(scheduler *Scheduler, publisher OrderEventPublisher) *OrderCreatedFanout {
	return &OrderCreatedFanout{scheduler: scheduler, publisher: publisher}
}

func (f *OrderCreatedFanout) OrderCreated(orderID, customerID string, orderDate time.Time) {
	if f.publisher != nil {
		f.publisher.PublishOrderCreated(orderID, customerID, orderDate)
	}
	f.scheduler.Trigger()
}
