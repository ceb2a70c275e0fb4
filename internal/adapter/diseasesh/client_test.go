package diseasesh

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/covid-stats-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(t *testing.T, h http.HandlerFunc) (*Client, *observability.Metrics) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	metrics := observability.NewMetricsForTesting()
	c := NewClient(srv.URL+"/", 5*time.Second, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return c, metrics
}

func writeBody(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set(headerContentType, contentTypeJSON)
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}

func TestClient_Global(t *testing.T) {
	c, metrics := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/covid-19/all", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, contentTypeJSON, r.Header.Get("Accept"))
		writeBody(t, w, `{"updated":1614556800000,"cases":100,"todayCases":5,"deaths":3,"todayDeaths":0,"recovered":40,"todayRecovered":2}`)
	})

	g, err := c.Global(context.Background())
	require.NoError(t, err)

	require.NotNil(t, g.Cases)
	assert.Equal(t, int64(100), *g.Cases)
	assert.Equal(t, int64(5), *g.TodayCases)
	assert.Equal(t, int64(0), *g.TodayDeaths)
	assert.Equal(t, int64(1614556800000), g.Updated)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.APIRequests.WithLabelValues("all", "success")), 0.0001)
}

func TestClient_Countries(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/covid-19/countries", r.URL.Path)
		writeBody(t, w, `[
			{"country":"A","countryInfo":{"iso2":"A1","lat":1,"long":2},"cases":50},
			{"country":"B","countryInfo":{"iso2":"B1","lat":3,"long":4},"cases":80,"recovered":null}
		]`)
	})

	list, err := c.Countries(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "A", list[0].Country)
	assert.Equal(t, "B1", list[1].CountryInfo.ISO2)
	assert.InDelta(t, 3.0, list[1].CountryInfo.Lat, 0.0001)
	assert.InDelta(t, 4.0, list[1].CountryInfo.Long, 0.0001)
	assert.Nil(t, list[1].Recovered)
}

func TestClient_Countries_NullBody(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(t, w, `null`)
	})

	list, err := c.Countries(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestClient_Country(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/covid-19/countries/B1", r.URL.Path)
		writeBody(t, w, `{"country":"B","countryInfo":{"iso2":"B1","lat":3,"long":4},"cases":80}`)
	})

	cs, err := c.Country(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, "B", cs.Country)
	assert.Equal(t, int64(80), *cs.Cases)
}

func TestClient_Country_NotFound(t *testing.T) {
	c, metrics := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Country not found or doesn't have any cases"}`))
	})

	_, err := c.Country(context.Background(), "ZZ")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Country not found")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.APIRequests.WithLabelValues("country", "not_found")), 0.0001)
}

func TestClient_Historical(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/covid-19/historical/all", r.URL.Path)
		assert.Equal(t, "120", r.URL.Query().Get("lastdays"))
		writeBody(t, w, `{"cases":{"1/8/21":100,"1/9/21":110},"deaths":{"1/8/21":1,"1/9/21":2},"recovered":{"1/8/21":0,"1/9/21":0}}`)
	})

	tl, err := c.Historical(context.Background(), 120)
	require.NoError(t, err)
	assert.Equal(t, int64(110), tl.Cases["1/9/21"])
	assert.Len(t, tl.Deaths, 2)
}

func TestClient_ServerError(t *testing.T) {
	c, metrics := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	})

	_, err := c.Global(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "502")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.APIRequests.WithLabelValues("all", "error")), 0.0001)
}

func TestClient_MalformedBody(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(t, w, `{"cases":`)
	})

	_, err := c.Global(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := c.Global(context.Background())
	require.Error(t, err)
}

func TestClient_BaseURLTrailingSlash(t *testing.T) {
	c := NewClient("https://disease.sh/", time.Second, observability.NewMetricsForTesting(), slog.Default())
	assert.Equal(t, "https://disease.sh/v3/covid-19", c.baseURL)
}
