package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Tiers(t *testing.T) {
	tests := []struct {
		name          string
		daysSince     int
		frequencyDays int
		wantClass     PriorityClass
		wantQualifies bool
	}{
		{"under frequency not flagged", 19, 20, PriorityNone, false},
		{"exactly at frequency qualifies without tier", 20, 20, PriorityNone, true},
		{"four days over still no tier", 24, 20, PriorityNone, true},
		{"five days over is low", 25, 20, PriorityLow, true},
		{"six days over is low", 26, 20, PriorityLow, true},
		{"nine days over is low", 29, 20, PriorityLow, true},
		{"ten days over is medium", 30, 20, PriorityMedium, true},
		{"fourteen days over is medium", 34, 20, PriorityMedium, true},
		{"fifteen days over is high", 35, 20, PriorityHigh, true},
		{"far overdue is high", 120, 20, PriorityHigh, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, qualifies := Classify(tt.daysSince, tt.frequencyDays)
			assert.Equal(t, tt.wantClass, class)
			assert.Equal(t, tt.wantQualifies, qualifies)
		})
	}
}

func TestClassify_NotClassifiable(t *testing.T) {
	// Zero or negative frequency means the field could not be parsed.
	_, qualifies := Classify(100, 0)
	assert.False(t, qualifies)

	_, qualifies = Classify(100, -1)
	assert.False(t, qualifies)

	// Negative elapsed days means the last order is in the future; treat as
	// not classifiable rather than flagging.
	_, qualifies = Classify(-1, 20)
	assert.False(t, qualifies)
}

func TestClassify_OverdueScenario(t *testing.T) {
	// frequency "20Days", last order 26 days ago: six days over, low tier.
	class, qualifies := Classify(26, 20)
	assert.True(t, qualifies)
	assert.Equal(t, PriorityLow, class)
}
