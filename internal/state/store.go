// Package state holds the dashboard's selection state: the single source of
// truth read by every view. The acquisition controller is its only writer;
// readers take copies or subscribe to committed changes.
package state

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/covid-stats-dashboard/internal/domain"
)

// Kind identifies which attributes a committed change touched.
type Kind uint8

const (
	KindScope Kind = 1 << iota
	KindMetric
	KindSnapshot
	KindCountries
	KindOptions
	KindViewport
	KindTimeline
)

var kindNames = []struct {
	kind Kind
	name string
}{
	{KindScope, "scope"},
	{KindMetric, "metric"},
	{KindSnapshot, "snapshot"},
	{KindCountries, "countries"},
	{KindOptions, "options"},
	{KindViewport, "viewport"},
	{KindTimeline, "timeline"},
}

// Names lists the attributes set in k, in declaration order.
func (k Kind) Names() []string {
	var out []string
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			out = append(out, kn.name)
		}
	}
	return out
}

func (k Kind) String() string {
	return strings.Join(k.Names(), ",")
}

// Selection is a point-in-time copy of the dashboard state.
type Selection struct {
	Scope     string                 `json:"scope"`
	Metric    domain.Metric          `json:"metric"`
	Snapshot  domain.Snapshot        `json:"snapshot"`
	Countries []domain.CountryStat   `json:"countries"` // normalized, cases descending
	Options   []domain.CountryOption `json:"options"`   // raw fetch order
	Timeline  domain.Timeline        `json:"-"`
	Viewport  domain.Viewport        `json:"viewport"`

	// Seq is the sequence number of the last committed snapshot fetch.
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasOption reports whether key is the worldwide sentinel or a loaded country option.
func (s Selection) HasOption(key string) bool {
	if key == domain.Worldwide {
		return true
	}
	for _, o := range s.Options {
		if o.Key == key {
			return true
		}
	}
	return false
}

func (s Selection) clone() Selection {
	s.Countries = slices.Clone(s.Countries)
	s.Options = slices.Clone(s.Options)
	return s
}

// Change is delivered to subscribers after every commit.
type Change struct {
	Kinds     Kind
	Selection Selection
}

// subscriberBuffer bounds the pending changes per subscriber. When full, the
// oldest pending change is dropped so the writer never blocks.
const subscriberBuffer = 16

// Store is the selection state. All setters replace one attribute atomically.
// Lists and timelines are replaced wholesale, never mutated in place.
type Store struct {
	mu     sync.RWMutex
	sel    Selection
	subs   map[int]chan Change
	nextID int
}

// NewStore creates a Store with the startup defaults: worldwide scope,
// cases metric, empty snapshot and lists, default viewport.
func NewStore() *Store {
	return &Store{
		sel: Selection{
			Scope:     domain.Worldwide,
			Metric:    domain.MetricCases,
			Snapshot:  domain.Snapshot{Scope: domain.Worldwide},
			Countries: []domain.CountryStat{},
			Options:   []domain.CountryOption{},
			Viewport:  domain.DefaultViewport(),
		},
		subs: make(map[int]chan Change),
	}
}

// Snapshot returns a copy of the current selection.
func (s *Store) Snapshot() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.clone()
}

// SetScope replaces the selected scope key.
func (s *Store) SetScope(key string) {
	s.Apply(KindScope, func(sel *Selection) { sel.Scope = key })
}

// SetMetric replaces the highlighted metric.
func (s *Store) SetMetric(m domain.Metric) {
	s.Apply(KindMetric, func(sel *Selection) { sel.Metric = m })
}

// SetSnapshot replaces the counters shown on the cards.
func (s *Store) SetSnapshot(snap domain.Snapshot) {
	s.Apply(KindSnapshot, func(sel *Selection) { sel.Snapshot = snap })
}

// SetFullList replaces the country list. Callers pass an already normalized list.
func (s *Store) SetFullList(list []domain.CountryStat) {
	s.Apply(KindCountries, func(sel *Selection) { sel.Countries = slices.Clone(list) })
}

// SetOptions replaces the selector options.
func (s *Store) SetOptions(opts []domain.CountryOption) {
	s.Apply(KindOptions, func(sel *Selection) { sel.Options = slices.Clone(opts) })
}

// SetViewport moves the map.
func (s *Store) SetViewport(center domain.LatLng, zoom int) {
	s.Apply(KindViewport, func(sel *Selection) {
		sel.Viewport = domain.Viewport{Center: center, Zoom: zoom}
	})
}

// SetTimeline replaces the worldwide historical series.
func (s *Store) SetTimeline(tl domain.Timeline) {
	s.Apply(KindTimeline, func(sel *Selection) { sel.Timeline = tl })
}

// Apply runs fn under the write lock and publishes a single change covering kinds.
// It is how several attributes are committed together.
func (s *Store) Apply(kinds Kind, fn func(*Selection)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.sel)
	s.sel.UpdatedAt = domain.Now()
	s.publish(Change{Kinds: kinds, Selection: s.sel.clone()})
}

// Update is like Apply but lets fn decide, based on the current state, whether
// to commit at all. It returns fn's result; nothing is published on false.
func (s *Store) Update(kinds Kind, fn func(*Selection) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.sel
	if !fn(&next) {
		return false
	}
	next.UpdatedAt = domain.Now()
	s.sel = next
	s.publish(Change{Kinds: kinds, Selection: s.sel.clone()})
	return true
}

// Subscribe registers a change listener. The returned func unsubscribes and
// closes the channel.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Change, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// publish must be called with s.mu held for writing.
func (s *Store) publish(c Change) {
	for _, ch := range s.subs {
		select {
		case ch <- c:
			continue
		default:
		}
		// Full: drop the oldest pending change, then retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c:
		default:
		}
	}
}
