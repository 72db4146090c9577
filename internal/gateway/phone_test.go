package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "binapp/internal/errors"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0412345678", "+61412345678"},
		{"412345678", "+61412345678"},
		{"+61 412 345 678", "+61412345678"},
		{"61412345678", "+61412345678"},
		{"0061412345678", "+61412345678"},
		{"(04) 1234-5678", "+61412345678"},
		{"04.1234.5678", "+61412345678"},
		{"+14155552671", "+14155552671"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"call me maybe",
		"04x2345678",
		"123",
		"+6141234567890123456",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := NormalizePhone(input)
			require.Error(t, err)

			_, ok := apperrors.IsValidationError(err)
			assert.True(t, ok, "malformed numbers fail with a validation error")
		})
	}
}
