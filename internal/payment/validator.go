// Package payment validates simulated card fields. Validation is
// format-only; nothing here talks to a payment network and no input is
// ever stored or logged.
package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	cardNumberPattern = regexp.MustCompile(`^[0-9]{12,19}$`)
	cvvPattern        = regexp.MustCompile(`^[0-9]{3,4}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2}|[0-9]{4})$`)
)

// ValidateCardNumber accepts 12 to 19 ASCII digits. Whitespace anywhere in
// the input is stripped first so "4111 1111 1111 1111" passes. Any other
// input, including empty, fails closed.
func ValidateCardNumber(raw string) bool {
	cleaned := strings.Join(strings.Fields(raw), "")
	return cardNumberPattern.MatchString(cleaned)
}

// ValidateExpiry accepts MM/YY or MM/YYYY. A two-digit year is read as
// 2000+YY. The expiry is valid while the last calendar day of that month is
// on or after the current UTC date.
func ValidateExpiry(raw string) bool {
	return validExpiryAt(raw, time.Now().UTC())
}

func validExpiryAt(raw string, now time.Time) bool {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return false
	}

	month, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return false
	}
	if len(m[2]) == 2 {
		year += 2000
	}

	// First day of the month after expiry; the card is valid strictly
	// before that instant.
	expiresAfter := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.Before(expiresAfter)
}

// ValidateCVV accepts 3 or 4 ASCII digits after trimming surrounding
// whitespace.
func ValidateCVV(raw string) bool {
	return cvvPattern.MatchString(strings.TrimSpace(raw))
}

// ValidateCard runs all three field checks and reports only a combined
// verdict, so callers cannot leak which field failed.
func ValidateCard(number, expiry, cvv string) bool {
	return ValidateCardNumber(number) && ValidateExpiry(expiry) && ValidateCVV(cvv)
}
