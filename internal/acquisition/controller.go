// Package acquisition owns every fetch the dashboard performs and is the only
// writer of the selection state.
package acquisition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/covid-stats-dashboard/internal/domain"
	"github.com/couchcryptid/covid-stats-dashboard/internal/observability"
	"github.com/couchcryptid/covid-stats-dashboard/internal/state"
	"golang.org/x/sync/errgroup"
)

// StatsSource fetches remote statistics.
type StatsSource interface {
	Global(ctx context.Context) (domain.GlobalStat, error)
	Countries(ctx context.Context) ([]domain.CountryStat, error)
	Country(ctx context.Context, iso2 string) (domain.CountryStat, error)
	Historical(ctx context.Context, lastDays int) (domain.Timeline, error)
}

// Controller orchestrates the startup and scope-change fetches.
//
// Every fetch that produces a snapshot takes a number from one monotonically
// increasing sequence. A completion is committed only when its number is not
// older than the last committed one, so a slow response for a scope the user
// already navigated away from never overwrites newer state. In-flight requests
// are never cancelled and failures are never retried.
type Controller struct {
	source      StatsSource
	store       *state.Store
	logger      *slog.Logger
	metrics     *observability.Metrics
	historyDays int

	seq            atomic.Uint64
	globalReady    atomic.Bool
	countriesReady atomic.Bool
}

// New creates a Controller writing to store.
func New(source StatsSource, store *state.Store, logger *slog.Logger, metrics *observability.Metrics, historyDays int) *Controller {
	return &Controller{
		source:      source,
		store:       store,
		logger:      logger,
		metrics:     metrics,
		historyDays: historyDays,
	}
}

// CheckReadiness returns nil once both startup fetches have committed.
func (c *Controller) CheckReadiness(_ context.Context) error {
	if !c.globalReady.Load() {
		return errors.New("worldwide statistics not loaded yet")
	}
	if !c.countriesReady.Load() {
		return errors.New("country list not loaded yet")
	}
	return nil
}

// Start runs the startup fetches concurrently. Each commits its own slice of
// state independently; one failing does not hold back the others.
func (c *Controller) Start(ctx context.Context) StartupResult {
	var (
		res StartupResult
		g   errgroup.Group
	)
	g.Go(func() error {
		res.Global = c.loadGlobal(ctx)
		return nil
	})
	g.Go(func() error {
		res.Countries = c.loadCountries(ctx)
		return nil
	})
	g.Go(func() error {
		res.Historical = c.loadHistorical(ctx)
		return nil
	})
	_ = g.Wait()

	if c.CheckReadiness(ctx) == nil {
		c.metrics.StartupComplete.Set(1)
	}
	c.logger.Info("startup fetches finished",
		"global", res.Global.Status,
		"countries", res.Countries.Status,
		"historical", res.Historical.Status,
	)
	return res
}

func (c *Controller) loadGlobal(ctx context.Context) Result {
	seq := c.seq.Add(1)
	g, err := c.source.Global(ctx)
	if err != nil {
		return c.fail(OpGlobal, seq, fmt.Errorf("fetch worldwide statistics: %w", err))
	}

	committed := c.store.Update(state.KindSnapshot, func(sel *state.Selection) bool {
		if seq < sel.Seq {
			return false
		}
		sel.Snapshot = g.Snapshot()
		sel.Seq = seq
		return true
	})
	// Superseded still means the API answered.
	c.globalReady.Store(true)
	if !committed {
		return c.superseded(OpGlobal, seq)
	}
	return c.committed(OpGlobal, seq)
}

func (c *Controller) loadCountries(ctx context.Context) Result {
	raw, err := c.source.Countries(ctx)
	if err != nil {
		return c.fail(OpCountries, 0, fmt.Errorf("fetch country list: %w", err))
	}

	opts := domain.Options(raw)
	sorted := domain.Normalize(raw)
	c.store.Apply(state.KindOptions|state.KindCountries, func(sel *state.Selection) {
		sel.Options = opts
		sel.Countries = sorted
	})
	c.countriesReady.Store(true)
	c.metrics.CountriesLoaded.Set(float64(len(sorted)))
	return c.committed(OpCountries, 0)
}

func (c *Controller) loadHistorical(ctx context.Context) Result {
	tl, err := c.source.Historical(ctx, c.historyDays)
	if err != nil {
		return c.fail(OpHistorical, 0, fmt.Errorf("fetch historical timeline: %w", err))
	}
	c.store.SetTimeline(tl)
	return c.committed(OpHistorical, 0)
}

// ChangeScope handles a user's geography selection: exactly one fetch, then an
// atomic commit of scope, snapshot and (for a country) viewport. Errors never
// escape; they are reported through the Result and the prior state stays on screen.
func (c *Controller) ChangeScope(ctx context.Context, key string) Result {
	if !c.store.Snapshot().HasOption(key) {
		return c.fail(OpScope, 0, fmt.Errorf("%w: %q", ErrUnknownScope, key))
	}

	seq := c.seq.Add(1)
	if key == domain.Worldwide {
		g, err := c.source.Global(ctx)
		if err != nil {
			return c.fail(OpScope, seq, fmt.Errorf("fetch worldwide statistics: %w", err))
		}
		return c.commitScope(seq, state.KindScope|state.KindSnapshot, func(sel *state.Selection) {
			sel.Scope = domain.Worldwide
			sel.Snapshot = g.Snapshot()
		})
	}

	cs, err := c.source.Country(ctx, key)
	if err != nil {
		return c.fail(OpScope, seq, fmt.Errorf("fetch country %s: %w", key, err))
	}
	vp := cs.Viewport()
	return c.commitScope(seq, state.KindScope|state.KindSnapshot|state.KindViewport, func(sel *state.Selection) {
		sel.Scope = key
		sel.Snapshot = cs.Snapshot()
		sel.Viewport = vp
	})
}

func (c *Controller) commitScope(seq uint64, kinds state.Kind, apply func(*state.Selection)) Result {
	committed := c.store.Update(kinds, func(sel *state.Selection) bool {
		if seq < sel.Seq {
			return false
		}
		apply(sel)
		sel.Seq = seq
		return true
	})
	if !committed {
		return c.superseded(OpScope, seq)
	}
	return c.committed(OpScope, seq)
}

// ChangeMetric switches the highlighted counter family. No I/O.
func (c *Controller) ChangeMetric(name string) Result {
	m, err := domain.ParseMetric(name)
	if err != nil {
		return c.fail(OpMetric, 0, err)
	}
	c.store.SetMetric(m)
	return c.committed(OpMetric, 0)
}

func (c *Controller) committed(op Op, seq uint64) Result {
	c.metrics.Commits.WithLabelValues(string(op), StatusCommitted.String()).Inc()
	c.logger.Debug("state committed", "op", op, "seq", seq)
	return Result{Op: op, Status: StatusCommitted, Seq: seq}
}

func (c *Controller) superseded(op Op, seq uint64) Result {
	c.metrics.Commits.WithLabelValues(string(op), StatusSuperseded.String()).Inc()
	c.logger.Info("discarding stale result", "op", op, "seq", seq)
	return Result{Op: op, Status: StatusSuperseded, Seq: seq}
}

func (c *Controller) fail(op Op, seq uint64, err error) Result {
	c.metrics.Commits.WithLabelValues(string(op), StatusFailed.String()).Inc()
	c.logger.Warn("state unchanged", "op", op, "seq", seq, "error", err)
	return Result{Op: op, Status: StatusFailed, Seq: seq, Err: err}
}
