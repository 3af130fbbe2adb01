package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "plain date",
			input: "2024-01-05",
			want:  time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: " 2024-02-29 ",
			want:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "day out of range",
			input:   "2024-02-30",
			wantErr: true,
		},
		{
			name:    "wrong layout",
			input:   "05/01/2024",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "expected %v, got %v", tt.want, got)
		})
	}
}

func TestNextDay_Rollover(t *testing.T) {
	tests := []struct {
		name     string
		day      time.Time
		expected string
	}{
		{"end of january", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), "2024-02-01"},
		{"leap day", time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), "2024-02-29"},
		{"after leap day", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), "2024-03-01"},
		{"non leap february", time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), "2023-03-01"},
		{"end of year", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DateKey(NextDay(tt.day)))
		})
	}
}

func TestEachDay(t *testing.T) {
	from := time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	var days []string
	EachDay(from, to, func(d time.Time) {
		days = append(days, DateKey(d))
	})

	assert.Equal(t, []string{"2023-12-30", "2023-12-31", "2024-01-01", "2024-01-02"}, days)
	assert.Equal(t, len(days), DaysInclusive(from, to))
}

func TestEachDay_EmptyRange(t *testing.T) {
	from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	calls := 0
	EachDay(from, from.AddDate(0, 0, -1), func(time.Time) { calls++ })

	assert.Zero(t, calls)
	assert.Zero(t, DaysInclusive(from, from.AddDate(0, 0, -1)))
}

func TestToday_UsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC is already the next morning in Kolkata.
	now := time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-05", DateKey(Today(now, time.UTC)))
	assert.Equal(t, "2024-01-06", DateKey(Today(now, kolkata)))
	assert.Equal(t, "2024-01-05", DateKey(Today(now, nil)))
}

func TestSumDecimals_NoFloatDrift(t *testing.T) {
	amounts := make([]decimal.Decimal, 0, 1000)
	for i := 0; i < 1000; i++ {
		amounts = append(amounts, decimal.RequireFromString("0.10"))
	}

	total := SumDecimals(amounts...)

	assert.True(t, total.Equal(decimal.NewFromInt(100)), "expected 100, got %s", total)
}

func TestMinMaxDate(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, a, MinDate(a, b))
	assert.Equal(t, a, MinDate(b, a))
	assert.Equal(t, b, MaxDate(a, b))
	assert.Equal(t, b, MaxDate(b, a))
}
