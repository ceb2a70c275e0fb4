package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownMetric is returned when a metric name is not one of the supported counter families.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric selects the counter family highlighted by the dashboard.
type Metric string

const (
	MetricCases     Metric = "cases"
	MetricRecovered Metric = "recovered"
	MetricDeaths    Metric = "deaths"
)

// Metrics lists the supported metrics in display order.
var Metrics = []Metric{MetricCases, MetricRecovered, MetricDeaths}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricCases, MetricRecovered, MetricDeaths:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
}

// Total returns the cumulative counter for the metric.
func (m Metric) Total(c Counters) *int64 {
	switch m {
	case MetricRecovered:
		return c.Recovered
	case MetricDeaths:
		return c.Deaths
	default:
		return c.Cases
	}
}

// Today returns the counter of today's new values for the metric.
func (m Metric) Today(c Counters) *int64 {
	switch m {
	case MetricRecovered:
		return c.TodayRecovered
	case MetricDeaths:
		return c.TodayDeaths
	default:
		return c.TodayCases
	}
}
