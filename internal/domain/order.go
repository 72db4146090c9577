package domain

import (
	"fmt"
	"time"
)

type Order struct {
	ID         string
	CustomerID string
	OrderDate  time.Time
	Items      []OrderItem
	Status     string
	TotalPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderItem struct {
	ID          uint
	OrderID     string
	Category    string
	SubCategory string
	WeightKg    float64
	PricePerKg  float64
}

const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
)

// ComputeTotal sums weight x pricePerKg across all items. The result is stored
// on the order at write time and never recomputed on read.
func (o Order) ComputeTotal() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.WeightKg * item.PricePerKg
	}
	return total
}

// orderDateLayouts lists the date shapes seen across intake paths. The first
// entry is canonical; the rest are locale strings written by older forms.
var orderDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	time.RFC3339,
}

// ParseOrderDate normalizes an order date string to a calendar date. Inputs
// arrive as "YYYY-MM-DD" from most write paths but at least one legacy path
// stores day-first locale strings, so several layouts are tried in order.
func ParseOrderDate(s string) (time.Time, error) {
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized order date %q", s)
}

// DaysBetween returns the whole-day difference between two dates, ignoring
// the time-of-day component.
func DaysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}
