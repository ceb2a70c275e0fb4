package domain

import (
	"sort"
	"time"
)

// timelineDateLayout is the M/D/YY key format used by the historical endpoint.
const timelineDateLayout = "1/2/06"

// Timeline holds cumulative worldwide counters keyed by date.
type Timeline struct {
	Cases     map[string]int64 `json:"cases"`
	Deaths    map[string]int64 `json:"deaths"`
	Recovered map[string]int64 `json:"recovered"`
}

// Series returns the cumulative series for the metric.
func (t Timeline) Series(m Metric) map[string]int64 {
	switch m {
	case MetricRecovered:
		return t.Recovered
	case MetricDeaths:
		return t.Deaths
	default:
		return t.Cases
	}
}

// DailyPoint is one day of new values.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Value int64     `json:"value"`
}

// DailyNew converts the cumulative series of the metric into day-over-day
// differences ordered by date. The first day has no predecessor and is
// skipped. Keys that do not parse as dates are ignored. Downward corrections
// in the source show up as negative values.
func (t Timeline) DailyNew(m Metric) []DailyPoint {
	series := t.Series(m)
	if len(series) == 0 {
		return []DailyPoint{}
	}

	days := make([]DailyPoint, 0, len(series))
	for key, v := range series {
		d, err := time.Parse(timelineDateLayout, key)
		if err != nil {
			continue
		}
		days = append(days, DailyPoint{Date: d, Value: v})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	if len(days) < 2 {
		return []DailyPoint{}
	}
	out := make([]DailyPoint, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		out = append(out, DailyPoint{Date: days[i].Date, Value: days[i].Value - days[i-1].Value})
	}
	return out
}
