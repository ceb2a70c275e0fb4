package domain

import "github.com/dustin/go-humanize"

// FormatCount renders a counter with thousands separators ("1,234,567").
// An absent counter renders as an empty string, never "0".
func FormatCount(v *int64) string {
	if v == nil {
		return ""
	}
	return humanize.Comma(*v)
}

// FormatDelta renders a daily counter with an explicit sign ("+5,000").
func FormatDelta(v *int64) string {
	if v == nil {
		return ""
	}
	if *v < 0 {
		return humanize.Comma(*v)
	}
	return "+" + humanize.Comma(*v)
}

// Int64 returns a pointer to v. Handy for building counters in fixtures.
func Int64(v int64) *int64 {
	return &v
}
