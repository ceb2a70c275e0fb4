// Package diseasesh implements the statistics source on top of the public
// disease.sh v3 COVID-19 API.
package diseasesh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-stats-dashboard/internal/domain"
	"github.com/couchcryptid/covid-stats-dashboard/internal/observability"
)

// ErrNotFound is returned when the API has no record for the requested country.
var ErrNotFound = errors.New("not found")

// Endpoint labels used for metrics and logs.
const (
	endpointAll        = "all"
	endpointCountries  = "countries"
	endpointCountry    = "country"
	endpointHistorical = "historical"
)

// Client fetches statistics from disease.sh. It issues exactly one request per
// call; there is no retry and no caching.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a client for the API rooted at baseURL (e.g. "https://disease.sh").
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/") + "/v3/covid-19",
		metrics: metrics,
		logger:  logger,
	}
}

// Global fetches the worldwide aggregate.
func (c *Client) Global(ctx context.Context) (domain.GlobalStat, error) {
	var out domain.GlobalStat
	if err := c.get(ctx, endpointAll, "/all", nil, &out); err != nil {
		return domain.GlobalStat{}, err
	}
	return out, nil
}

// Countries fetches the latest statistics of every country, in API order.
func (c *Client) Countries(ctx context.Context) ([]domain.CountryStat, error) {
	var out []domain.CountryStat
	if err := c.get(ctx, endpointCountries, "/countries", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.CountryStat{}
	}
	return out, nil
}

// Country fetches one country by ISO 3166-1 alpha-2 code.
func (c *Client) Country(ctx context.Context, iso2 string) (domain.CountryStat, error) {
	var out domain.CountryStat
	if err := c.get(ctx, endpointCountry, "/countries/"+url.PathEscape(iso2), nil, &out); err != nil {
		return domain.CountryStat{}, err
	}
	return out, nil
}

// Historical fetches the cumulative worldwide timeline of the last lastDays days.
func (c *Client) Historical(ctx context.Context, lastDays int) (domain.Timeline, error) {
	params := url.Values{"lastdays": {strconv.Itoa(lastDays)}}
	var out domain.Timeline
	if err := c.get(ctx, endpointHistorical, "/historical/all", params, &out); err != nil {
		return domain.Timeline{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	start := time.Now()
	err := c.doRequest(ctx, u, endpoint, out)
	c.metrics.APIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.APIRequests.WithLabelValues(endpoint, "success").Inc()
	case errors.Is(err, ErrNotFound):
		c.metrics.APIRequests.WithLabelValues(endpoint, "not_found").Inc()
	default:
		c.metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
	}
	c.logger.Debug("stats api request", "endpoint", endpoint, "url", u, "duration", time.Since(start), "error", err)
	return err
}

func (c *Client) doRequest(ctx context.Context, fullURL, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %s", endpoint, ErrNotFound, apiMessage(resp.Body))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("stats API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// apiMessage extracts the {"message": "..."} body disease.sh sends with 404s.
func apiMessage(body io.Reader) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4<<10)).Decode(&e); err != nil || e.Message == "" {
		return "no details"
	}
	return e.Message
}
