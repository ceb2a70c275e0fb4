package domain

import "sort"

// Normalize returns the records ordered by total confirmed cases, descending.
// The sort is stable so ties keep their fetch order. A missing case counter
// sorts as zero; the record itself is not modified. The input is left untouched.
func Normalize(raw []CountryStat) []CountryStat {
	out := make([]CountryStat, len(raw))
	copy(out, raw)
	sort.SliceStable(out, func(i, j int) bool {
		return valueOrZero(out[i].Cases) > valueOrZero(out[j].Cases)
	})
	return out
}

// Options derives selector entries from the raw list, preserving its order.
// Records without an ISO code are skipped because they cannot be selected by key.
func Options(raw []CountryStat) []CountryOption {
	opts := make([]CountryOption, 0, len(raw))
	for _, c := range raw {
		if c.CountryInfo.ISO2 == "" {
			continue
		}
		opts = append(opts, CountryOption{Name: c.Country, Key: c.CountryInfo.ISO2})
	}
	return opts
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
