package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCardNumber(t *testing.T) {
	t.Run("accepts plain digits between 12 and 19", func(t *testing.T) {
		assert.True(t, ValidateCardNumber("4111111111111111"))
		assert.True(t, ValidateCardNumber("123456789012"))
		assert.True(t, ValidateCardNumber("1234567890123456789"))
	})

	t.Run("strips whitespace", func(t *testing.T) {
		assert.True(t, ValidateCardNumber("4111 1111 1111 1111"))
		assert.True(t, ValidateCardNumber("  4111111111111111\t"))
	})

	t.Run("rejects wrong lengths", func(t *testing.T) {
		assert.False(t, ValidateCardNumber("12345678901"))
		assert.False(t, ValidateCardNumber("12345678901234567890"))
	})

	t.Run("fails closed on garbage", func(t *testing.T) {
		assert.False(t, ValidateCardNumber(""))
		assert.False(t, ValidateCardNumber("4111-1111-1111-1111"))
		assert.False(t, ValidateCardNumber("411111111111111a"))
		assert.False(t, ValidateCardNumber("٤١١١١١١١١١١١١١١١")) // non-ASCII digits
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("current month is still valid", func(t *testing.T) {
		assert.True(t, validExpiryAt("06/24", now))
		assert.True(t, validExpiryAt("06/2024", now))
	})

	t.Run("last day of expiry month is valid", func(t *testing.T) {
		lastDay := time.Date(2024, time.June, 30, 23, 59, 0, 0, time.UTC)
		assert.True(t, validExpiryAt("06/24", lastDay))
	})

	t.Run("first day after expiry month is invalid", func(t *testing.T) {
		dayAfter := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
		assert.False(t, validExpiryAt("06/24", dayAfter))
	})

	t.Run("two-digit year means 2000s", func(t *testing.T) {
		// "01/20" is January 2020 and long past.
		assert.False(t, validExpiryAt("01/20", now))
		assert.True(t, validExpiryAt("01/99", now))
	})

	t.Run("month bounds", func(t *testing.T) {
		assert.False(t, validExpiryAt("00/30", now))
		assert.False(t, validExpiryAt("13/30", now))
		assert.True(t, validExpiryAt("12/30", now))
		assert.True(t, validExpiryAt("01/30", now))
	})

	t.Run("fails closed on malformed input", func(t *testing.T) {
		for _, raw := range []string{"", "1/30", "06-24", "06/2", "06/024", "june/24", "06/24/01", "0624"} {
			assert.False(t, validExpiryAt(raw, now), "input %q", raw)
		}
	})
}

func TestValidateCVV(t *testing.T) {
	assert.True(t, ValidateCVV("123"))
	assert.True(t, ValidateCVV("1234"))
	assert.True(t, ValidateCVV(" 123 "))

	assert.False(t, ValidateCVV(""))
	assert.False(t, ValidateCVV("12"))
	assert.False(t, ValidateCVV("12345"))
	assert.False(t, ValidateCVV("12a"))
}

// Every validator must return a verdict, never panic, for arbitrary input.
func TestValidatorsAreTotal(t *testing.T) {
	inputs := []string{
		"", " ", "\x00", "££££", "NaN", "-1", "0/00",
		"99999999999999999999999999999999", "4111111111111111'; DROP TABLE",
		string(rune(0x10FFFF)),
	}
	for i, s := range inputs {
		t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
			assert.NotPanics(t, func() {
				ValidateCardNumber(s)
				ValidateExpiry(s)
				ValidateCVV(s)
			})
		})
	}
}

func TestValidateCard(t *testing.T) {
	assert.True(t, ValidateCard("4111111111111111", "12/99", "123"))
	assert.False(t, ValidateCard("4111111111111111", "12/99", "12"))
	assert.False(t, ValidateCard("4111111111111111", "01/20", "123"))
	assert.False(t, ValidateCard("", "12/99", "123"))
}
