package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100000", 100000, true},
		{" 185000.5 ", 185000.5, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"0", 0, true},
	}
	for _, tt := range tests {
		got, ok := ParseFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, "input %q", tt.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	assert.Equal(t,
		time.Date(2023, 6, 16, 13, 44, 15, 0, time.UTC),
		ParseDate("2023-06-16 13:44:15"))
	assert.Equal(t,
		time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC),
		ParseDate("2023-06-16"))
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("not a date").IsZero())
}

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("True"))
	assert.True(t, ParseBool("1"))
	assert.False(t, ParseBool("False"))
	assert.False(t, ParseBool(""))
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t,
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		MonthOf(time.Date(2023, 6, 16, 13, 44, 15, 0, time.UTC)))
}
