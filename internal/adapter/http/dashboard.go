package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/couchcryptid/covid-stats-dashboard/internal/acquisition"
	"github.com/couchcryptid/covid-stats-dashboard/internal/adapter/diseasesh"
	"github.com/couchcryptid/covid-stats-dashboard/internal/view"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, view.Build(s.state.Snapshot()))
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	sel := s.state.Snapshot()
	data, err := view.Map(sel.Countries, sel.Metric).MarshalJSON()
	if err != nil {
		s.logger.Error("encode map", "error", err)
		writeError(w, http.StatusInternalServerError, "encode map")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleChart(w http.ResponseWriter, _ *http.Request) {
	sel := s.state.Snapshot()
	sharedobs.WriteJSON(w, http.StatusOK, view.BuildChart(sel.Timeline, sel.Metric))
}

func (s *Server) handleScope(w http.ResponseWriter, r *http.Request) {
	var req scopeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The fetch outlives the request: a client that disconnects does not
	// abandon the selection. STATS_API_TIMEOUT still bounds it.
	res := s.ctrl.ChangeScope(context.WithoutCancel(r.Context()), req.Scope)
	sharedobs.WriteJSON(w, resultStatus(res), res)
}

func (s *Server) handleMetric(w http.ResponseWriter, r *http.Request) {
	var req metricRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.ctrl.ChangeMetric(req.Metric)
	sharedobs.WriteJSON(w, resultStatus(res), res)
}

// resultStatus maps a controller result onto an HTTP status code.
func resultStatus(res acquisition.Result) int {
	switch res.Status {
	case acquisition.StatusCommitted:
		return http.StatusOK
	case acquisition.StatusSuperseded:
		return http.StatusConflict
	}
	switch {
	case errors.Is(res.Err, acquisition.ErrUnknownScope):
		return http.StatusBadRequest
	case errors.Is(res.Err, diseasesh.ErrNotFound):
		return http.StatusNotFound
	case res.Op == acquisition.OpMetric:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
