package domain

import (
	"strconv"
	"strings"
	"time"
)

type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	Email     *string
	Address   *string
	Frequency string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// FrequencyDays parses the expected reorder interval from the frequency field.
// The field is free-text and arrives in several shapes ("20Days", "20", "20.0")
// depending on which write path last touched it, so only the digits count.
// Returns 0 when no usable value can be extracted; callers must treat 0 as
// "not classifiable", never as a real interval.
func (c Customer) FrequencyDays() int {
	var digits strings.Builder
	for _, r := range c.Frequency {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		} else if r == '.' || r == ',' {
			// "20.5" and "20,5" both mean twenty-something days; keep the integer part
			break
		}
	}

	if digits.Len() == 0 {
		return 0
	}

	days, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return days
}
