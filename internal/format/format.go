// Package format renders numbers and times for human-facing output.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Int formats n with thousands separators, e.g. 1234567 -> "1,234,567".
func Int(n int64) string {
	return printer.Sprintf("%d", n)
}

// Float formats f with thousands separators and prec decimals.
// NaN and infinities are printed as-is.
func Float(f float64, prec int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}
	if prec < 0 {
		prec = 0
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", prec), f)
}

// Since describes t relative to now, e.g. "3 hours ago".
func Since(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Timestamp is the absolute form used in history listings.
func Timestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
