package domain

import "time"

// Worldwide is the scope key selecting the global aggregate instead of a country.
const Worldwide = "worldwide"

// Counters is the shared counter shape of every statistics payload. Each counter
// is a pointer so that a field missing from the upstream payload stays
// distinguishable from a reported zero.
type Counters struct {
	TodayCases     *int64 `json:"todayCases"`
	Cases          *int64 `json:"cases"`
	TodayRecovered *int64 `json:"todayRecovered"`
	Recovered      *int64 `json:"recovered"`
	TodayDeaths    *int64 `json:"todayDeaths"`
	Deaths         *int64 `json:"deaths"`
}

// CountryInfo carries the geographic identity of a country record.
type CountryInfo struct {
	ISO2 string  `json:"iso2"`
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// CountryStat is one country's latest statistics.
type CountryStat struct {
	Country     string      `json:"country"`
	CountryInfo CountryInfo `json:"countryInfo"`
	Counters
}

// GlobalStat is the worldwide aggregate. It has no geographic identity.
type GlobalStat struct {
	Counters
	Updated int64 `json:"updated,omitempty"` // upstream last-update time, unix millis
}

// CountryOption is one entry of the geography selector.
type CountryOption struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Snapshot is the statistics object currently displayed for the selected scope.
// Country and ISO2 are empty for the worldwide aggregate.
type Snapshot struct {
	Scope     string    `json:"scope"`
	Country   string    `json:"country,omitempty"`
	ISO2      string    `json:"iso2,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	Counters
}

// Snapshot converts the aggregate into a displayable snapshot.
func (g GlobalStat) Snapshot() Snapshot {
	return Snapshot{
		Scope:     Worldwide,
		FetchedAt: clock.Now(),
		Counters:  g.Counters,
	}
}

// Snapshot converts the country record into a displayable snapshot.
func (c CountryStat) Snapshot() Snapshot {
	return Snapshot{
		Scope:     c.CountryInfo.ISO2,
		Country:   c.Country,
		ISO2:      c.CountryInfo.ISO2,
		FetchedAt: clock.Now(),
		Counters:  c.Counters,
	}
}

// LatLng is a WGS-84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Viewport is the map's center and zoom level.
type Viewport struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

// CountryZoom is the zoom level applied when a single country is selected.
const CountryZoom = 4

// DefaultViewport frames the Atlantic so that most populated land is visible.
func DefaultViewport() Viewport {
	return Viewport{Center: LatLng{Lat: 34.80746, Lng: -40.4796}, Zoom: 3}
}

// Viewport centers the map on the country at CountryZoom.
func (c CountryStat) Viewport() Viewport {
	return Viewport{
		Center: LatLng{Lat: c.CountryInfo.Lat, Lng: c.CountryInfo.Long},
		Zoom:   CountryZoom,
	}
}
