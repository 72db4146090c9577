package domain

import "time"

// PriorityEntry flags a customer as due for outbound contact. Entries are
// derived state owned exclusively by the priority synchronizer; at most one
// exists per customer.
type PriorityEntry struct {
	CustomerID         string
	DaysSinceLastOrder int
	FrequencyDays      int
	PriorityClass      PriorityClass
	LastOrderDate      time.Time
	UpdatedAt          time.Time
}

type PriorityClass string

const (
	PriorityNone   PriorityClass = "none"
	PriorityLow    PriorityClass = "low"
	PriorityMedium PriorityClass = "medium"
	PriorityHigh   PriorityClass = "high"
)

// A customer qualifies for the priority collection as soon as the elapsed
// time reaches the expected interval. Tier boundaries are offsets on top of
// that and affect display only, not inclusion.
const (
	lowTierSlackDays    = 5
	mediumTierSlackDays = 10
	highTierSlackDays   = 15
)

// Classify maps elapsed-vs-expected order timing to a priority tier. It is
// the single classification function shared by every caller; the second
// return reports whether the customer qualifies for the priority collection
// at all. Customers with no order history or an unparseable frequency
// (freqDays <= 0) are not classifiable and never qualify.
func Classify(daysSinceLastOrder, frequencyDays int) (PriorityClass, bool) {
	if frequencyDays <= 0 || daysSinceLastOrder < 0 {
		return PriorityNone, false
	}
	if daysSinceLastOrder < frequencyDays {
		return PriorityNone, false
	}

	over := daysSinceLastOrder - frequencyDays
	switch {
	case over >= highTierSlackDays:
		return PriorityHigh, true
	case over >= mediumTierSlackDays:
		return PriorityMedium, true
	case over >= lowTierSlackDays:
		return PriorityLow, true
	default:
		return PriorityNone, true
	}
}
