package acquisition

import (
	"encoding/json"
	"errors"
)

// ErrUnknownScope is returned when a scope key is neither the worldwide
// sentinel nor a country from the last loaded list.
var ErrUnknownScope = errors.New("unknown scope")

// Op names the operation a Result belongs to.
type Op string

const (
	OpGlobal     Op = "global"
	OpCountries  Op = "countries"
	OpHistorical Op = "historical"
	OpScope      Op = "scope"
	OpMetric     Op = "metric"
)

// Status is the terminal state of a single fetch: Idle → InFlight → one of these.
type Status int

const (
	// StatusCommitted means the fetched data was written to the selection state.
	StatusCommitted Status = iota + 1
	// StatusFailed means the fetch or validation failed; state is unchanged.
	StatusFailed
	// StatusSuperseded means the fetch succeeded but a newer one had already
	// committed, so the result was discarded.
	StatusSuperseded
)

func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusFailed:
		return "failed"
	case StatusSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Result is the explicit outcome of one controller operation. Callers switch
// on Status; Err is set only for StatusFailed.
type Result struct {
	Op     Op
	Status Status
	Seq    uint64
	Err    error
}

// OK reports whether the operation committed.
func (r Result) OK() bool { return r.Status == StatusCommitted }

// MarshalJSON renders the result for API responses.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Op     Op     `json:"op"`
		Status string `json:"status"`
		Seq    uint64 `json:"seq,omitempty"`
		Error  string `json:"error,omitempty"`
	}{Op: r.Op, Status: r.Status.String(), Seq: r.Seq}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// StartupResult collects the outcome of each startup fetch.
type StartupResult struct {
	Global     Result
	Countries  Result
	Historical Result
}
