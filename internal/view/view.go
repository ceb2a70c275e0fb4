// Package view derives the read-only models the dashboard front end renders:
// stat cards, the country table, selector options, map points and the chart.
package view

import (
	"math"
	"time"

	"github.com/couchcryptid/covid-stats-dashboard/internal/domain"
	"github.com/couchcryptid/covid-stats-dashboard/internal/state"
	geojson "github.com/paulmach/go.geojson"
)

// Card is one statistic box (cases, recovered or deaths).
type Card struct {
	Metric domain.Metric `json:"metric"`
	Title  string        `json:"title"`
	Today  string        `json:"today"`
	Total  string        `json:"total"`
	Active bool          `json:"active"`
	Red    bool          `json:"red"`
}

// Row is one line of the country table.
type Row struct {
	Country string `json:"country"`
	ISO2    string `json:"iso2"`
	Cases   string `json:"cases"`
}

// ChartPoint is one day of the "new per day" chart.
type ChartPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// Chart is the worldwide daily series of the selected metric.
type Chart struct {
	Metric domain.Metric `json:"metric"`
	Title  string        `json:"title"`
	Points []ChartPoint  `json:"points"`
}

// Dashboard bundles every view model for one render.
type Dashboard struct {
	Scope     string                 `json:"scope"`
	Metric    domain.Metric          `json:"metric"`
	Cards     []Card                 `json:"cards"`
	Table     []Row                  `json:"table"`
	Options   []domain.CountryOption `json:"options"`
	Viewport  domain.Viewport        `json:"viewport"`
	Chart     Chart                  `json:"chart"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type metricStyle struct {
	title      string
	color      string
	multiplier float64
	red        bool
}

var styles = map[domain.Metric]metricStyle{
	domain.MetricCases:     {title: "Coronavirus Cases", color: "#CC1034", multiplier: 800, red: true},
	domain.MetricRecovered: {title: "Recovered", color: "#7dd71d", multiplier: 1200},
	domain.MetricDeaths:    {title: "Deaths", color: "#fb4443", multiplier: 2000, red: true},
}

// Build derives the complete dashboard model from a selection.
func Build(sel state.Selection) Dashboard {
	return Dashboard{
		Scope:     sel.Scope,
		Metric:    sel.Metric,
		Cards:     Cards(sel.Snapshot.Counters, sel.Metric),
		Table:     Table(sel.Countries),
		Options:   Options(sel.Options),
		Viewport:  sel.Viewport,
		Chart:     BuildChart(sel.Timeline, sel.Metric),
		UpdatedAt: sel.UpdatedAt,
	}
}

// Cards renders one card per metric; the selected metric's card is active.
func Cards(c domain.Counters, selected domain.Metric) []Card {
	cards := make([]Card, 0, len(domain.Metrics))
	for _, m := range domain.Metrics {
		st := styles[m]
		cards = append(cards, Card{
			Metric: m,
			Title:  st.title,
			Today:  domain.FormatDelta(m.Today(c)),
			Total:  domain.FormatCount(m.Total(c)),
			Active: m == selected,
			Red:    st.red,
		})
	}
	return cards
}

// Table renders the normalized country list. Order is preserved.
func Table(countries []domain.CountryStat) []Row {
	rows := make([]Row, len(countries))
	for i, c := range countries {
		rows[i] = Row{
			Country: c.Country,
			ISO2:    c.CountryInfo.ISO2,
			Cases:   domain.FormatCount(c.Cases),
		}
	}
	return rows
}

// Options prepends the worldwide entry to the country options.
func Options(opts []domain.CountryOption) []domain.CountryOption {
	out := make([]domain.CountryOption, 0, len(opts)+1)
	out = append(out, domain.CountryOption{Name: "Worldwide", Key: domain.Worldwide})
	return append(out, opts...)
}

// Map renders every country with coordinates as a GeoJSON point sized by the
// selected metric. The radius is in meters.
func Map(countries []domain.CountryStat, m domain.Metric) *geojson.FeatureCollection {
	st := styles[m]
	fc := geojson.NewFeatureCollection()
	for _, c := range countries {
		f := geojson.NewPointFeature([]float64{c.CountryInfo.Long, c.CountryInfo.Lat})
		f.SetProperty("country", c.Country)
		f.SetProperty("iso2", c.CountryInfo.ISO2)
		f.SetProperty("cases", c.Cases)
		f.SetProperty("recovered", c.Recovered)
		f.SetProperty("deaths", c.Deaths)
		f.SetProperty("metric", string(m))
		f.SetProperty("color", st.color)
		f.SetProperty("radius", Radius(m.Total(c.Counters), m))
		fc.AddFeature(f)
	}
	return fc
}

// Radius is the circle radius for a metric value: sqrt(value) scaled per metric.
// Absent or negative values draw nothing.
func Radius(v *int64, m domain.Metric) float64 {
	if v == nil || *v <= 0 {
		return 0
	}
	return math.Sqrt(float64(*v)) * styles[m].multiplier
}

// BuildChart renders the daily new values of the metric.
func BuildChart(tl domain.Timeline, m domain.Metric) Chart {
	daily := tl.DailyNew(m)
	points := make([]ChartPoint, len(daily))
	for i, p := range daily {
		points[i] = ChartPoint{Date: p.Date.Format(time.DateOnly), Value: p.Value}
	}
	return Chart{
		Metric: m,
		Title:  "Worldwide new " + string(m),
		Points: points,
	}
}
