// Command snapshot runs the dashboard's startup fetches once, optionally
// selects a scope and metric, and prints the resulting view model as JSON.
// It is handy for checking the upstream API and the derived figures without
// running the service.
//
// Usage:
//
//	go run ./cmd/snapshot -scope DE -metric deaths
//	go run ./cmd/snapshot -api-url http://localhost:3000 -map > map.geojson
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/covid-stats-dashboard/internal/acquisition"
	"github.com/couchcryptid/covid-stats-dashboard/internal/adapter/diseasesh"
	"github.com/couchcryptid/covid-stats-dashboard/internal/domain"
	"github.com/couchcryptid/covid-stats-dashboard/internal/observability"
	"github.com/couchcryptid/covid-stats-dashboard/internal/state"
	"github.com/couchcryptid/covid-stats-dashboard/internal/view"
)

func main() {
	apiURL := flag.String("api-url", "https://disease.sh", "statistics API base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	scope := flag.String("scope", domain.Worldwide, "scope to select: worldwide or an ISO2 country code")
	metric := flag.String("metric", string(domain.MetricCases), "metric to highlight: cases, recovered or deaths")
	days := flag.Int("history-days", 120, "days of worldwide history for the chart")
	asMap := flag.Bool("map", false, "print the GeoJSON map instead of the dashboard")
	verbose := flag.Bool("v", false, "log requests to stderr")
	flag.Parse()

	if err := run(os.Stdout, *apiURL, *timeout, *scope, *metric, *days, *asMap, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer, apiURL string, timeout time.Duration, scope, metric string, days int, asMap, verbose bool) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	metrics := observability.NewUnregisteredMetrics()

	client := diseasesh.NewClient(apiURL, timeout, metrics, logger)
	store := state.NewStore()
	ctrl := acquisition.New(client, store, logger, metrics, days)

	ctx := context.Background()
	res := ctrl.Start(ctx)
	for _, r := range []acquisition.Result{res.Global, res.Countries} {
		if !r.OK() {
			return fmt.Errorf("startup %s %s: %w", r.Op, r.Status, r.Err)
		}
	}

	if r := ctrl.ChangeMetric(metric); !r.OK() {
		return r.Err
	}
	if scope != domain.Worldwide {
		if r := ctrl.ChangeScope(ctx, scope); !r.OK() {
			return fmt.Errorf("select %s: %s: %w", scope, r.Status, r.Err)
		}
	}

	sel := store.Snapshot()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if asMap {
		return enc.Encode(view.Map(sel.Countries, sel.Metric))
	}
	return enc.Encode(view.Build(sel))
}
