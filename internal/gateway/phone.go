package gateway

import (
	"strings"

	"binapp/internal/errors"
)

// defaultCountryCode covers the deployment's home region. Customer phone
// numbers arrive in whatever shape the intake form was given: local with a
// leading zero, bare mobile digits, full international, or any of those with
// stray spaces and punctuation.
const defaultCountryCode = "61"

// NormalizePhone coerces a free-text phone number to E.164. Malformed input
// is a ValidationError; nothing is ever passed to the provider unnormalized.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, raw)

	if cleaned == "" {
		return "", errors.NewValidationError("phone number is empty", errors.ValidationDetail{
			Field:   "phone",
			Message: "phone number is required",
		})
	}

	hadPlus := strings.HasPrefix(cleaned, "+")
	digits := strings.TrimPrefix(cleaned, "+")

	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", invalidPhone(raw)
		}
	}

	switch {
	case hadPlus:
		// Already international; nothing to add.
	case strings.HasPrefix(digits, "00"):
		digits = digits[2:]
	case strings.HasPrefix(digits, "0"):
		digits = defaultCountryCode + digits[1:]
	case strings.HasPrefix(digits, defaultCountryCode) && len(digits) >= 10:
		// Country code without the plus.
	default:
		// Bare local digits, e.g. a mobile number with the leading zero
		// already dropped.
		digits = defaultCountryCode + digits
	}

	if len(digits) < 10 || len(digits) > 15 {
		return "", invalidPhone(raw)
	}

	return "+" + digits, nil
}

func invalidPhone(raw string) error {
	return errors.NewValidationError("invalid phone number", errors.ValidationDetail{
		Field:   "phone",
		Message: "cannot normalize " + raw + " to E.164",
	})
}
