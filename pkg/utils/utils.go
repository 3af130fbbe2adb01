package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of a calendar day.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into midnight UTC of that calendar day.
// Rolled-over values such as 2024-02-30 are rejected.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DateOf drops the clock part of t, keeping the calendar day as seen in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// DateKey formats a day as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// NextDay advances by one calendar day. AddDate normalizes month and year
// rollover, e.g. 2024-01-31 -> 2024-02-01 and 2024-12-31 -> 2025-01-01.
func NextDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// EachDay calls fn for every calendar day in [from, to] inclusive.
func EachDay(from, to time.Time, fn func(day time.Time)) {
	from, to = DateOf(from), DateOf(to)
	for d := from; !d.After(to); d = NextDay(d) {
		fn(d)
	}
}

// DaysInclusive counts the calendar days in [from, to]; zero when to is before from.
func DaysInclusive(from, to time.Time) int {
	from, to = DateOf(from), DateOf(to)
	if to.Before(from) {
		return 0
	}
	// Both are midnight UTC, so the difference is an exact multiple of 24h.
	return int(to.Sub(from).Hours()/24) + 1
}

// MinDate returns the earlier of a and b.
func MinDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDate returns the later of a and b.
func MaxDate(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// SumDecimals adds amounts without going through float64.
func SumDecimals(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
