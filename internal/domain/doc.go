// Package domain models the public COVID-19 statistics served by the
// disease.sh v3 API and the pure transformations applied to them before display.
//
// # Data Source
//
// Three endpoints feed the dashboard: the worldwide aggregate (/v3/covid-19/all),
// the per-country list (/v3/covid-19/countries) and a single country
// (/v3/covid-19/countries/{iso2}). The historical endpoint
// (/v3/covid-19/historical/all) adds cumulative worldwide series keyed by
// "M/D/YY" dates.
//
// # Counters
//
// Every payload shares six counters: today's new and total cases, recovered and
// deaths. Upstream omits counters it has no data for, notably recovered figures
// for countries that stopped reporting them. Counters are therefore decoded into
// *int64 and an absent value is carried through untouched:
//
//	nil   → unknown, rendered as ""          (see [FormatCount])
//	0     → reported zero, rendered as "0"
//
// Sorting treats an absent counter as zero without writing the zero back
// (see [Normalize]).
//
// # Scope and Metric
//
// A scope is either [Worldwide] or an ISO 3166-1 alpha-2 code. A metric selects
// one counter family ([MetricCases], [MetricRecovered], [MetricDeaths]). The
// country table is always ordered by total cases, independent of the metric.
package domain
