package format

import (
	"math"
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := Int(tt.in); got != tt.want {
			t.Errorf("Int(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		in   float64
		prec int
		want string
	}{
		{1234.5, 2, "1,234.50"},
		{0.125, 1, "0.1"},
		{98765.4321, 0, "98,765"},
	}
	for _, tt := range tests {
		if got := Float(tt.in, tt.prec); got != tt.want {
			t.Errorf("Float(%v, %d) = %q, want %q", tt.in, tt.prec, got, tt.want)
		}
	}
	if got := Float(math.NaN(), 2); got != "NaN" {
		t.Errorf("Float(NaN) = %q", got)
	}
}

func TestSince(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := Since(now.Add(-3*time.Hour), now); got != "3 hours ago" {
		t.Errorf("Since = %q, want %q", got, "3 hours ago")
	}
	if got := Since(time.Time{}, now); got != "never" {
		t.Errorf("Since(zero) = %q, want never", got)
	}
}
