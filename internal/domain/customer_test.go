package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomer_FrequencyDays(t *testing.T) {
	tests := []struct {
		frequency string
		want      int
	}{
		{"20", 20},
		{"20Days", 20},
		{"20 days", 20},
		{"every 14", 14},
		{"7.5", 7},
		{"", 0},
		{"unknown", 0},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.frequency, func(t *testing.T) {
			c := Customer{Frequency: tt.frequency}
			assert.Equal(t, tt.want, c.FrequencyDays())
		})
	}
}

func TestCustomer_FullName(t *testing.T) {
	c := Customer{FirstName: "Maria", LastName: "Rossi"}
	assert.Equal(t, "Maria Rossi", c.FullName())

	c = Customer{FirstName: "Madonna"}
	assert.Equal(t, "Madonna", c.FullName())
}
