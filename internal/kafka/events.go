package kafka

import (
	"encoding/json"
	"time"
)

const TopicOrderCreated = "binapp.orders.created"

type OrderCreatedEvent struct {
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
	OrderDate  string `json:"orderDate"`
	OccurredAt string `json:"occurredAt"`
}

func NewOrderCreatedEvent(orderID, customerID string, orderDate time.Time) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:    orderID,
		CustomerID: customerID,
		OrderDate:  orderDate.Format("2006-01-02"),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (e OrderCreatedEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
