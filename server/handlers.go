package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/explain"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/search"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/viz"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// resolveIRI expands a local name into the measurement namespace.
// Full IRIs pass through unchanged.
func resolveIRI(input string) string {
	if strings.Contains(input, "://") {
		return input
	}
	return meas.Namespace + input
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	st := s.current()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"triples": st.querier.Store().Len(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.current().querier.Store().Stats())
}

func (s *Server) handleConstructs(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.current().querier.AllConstructs())
}

func (s *Server) handleModalities(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.current().querier.AllModalities())
}

func (s *Server) handleMeasures(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	if modality := r.URL.Query().Get("modality"); modality != "" {
		s.writeJSON(w, http.StatusOK, st.querier.MeasuresByModality(resolveIRI(modality)))
		return
	}
	s.writeJSON(w, http.StatusOK, st.querier.AllMeasures())
}

func (s *Server) handleEvidence(w http.ResponseWriter, r *http.Request) {
	construct := r.URL.Query().Get("construct")
	if construct == "" {
		s.writeError(w, http.StatusBadRequest, "construct query parameter is required")
		return
	}

	filters, err := parseFilters(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	evidence := s.current().querier.EvidenceForConstruct(resolveIRI(construct))
	s.writeJSON(w, http.StatusOK, search.ApplyFilters(evidence, filters))
}

func parseFilters(r *http.Request) (search.Filters, error) {
	var f search.Filters
	q := r.URL.Query()

	if v := q.Get("populations"); v != "" {
		f.Populations = strings.Split(v, ",")
	}
	if v := q.Get("p_value"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errInvalidParam("p_value", v)
		}
		f.PValueThreshold = &t
	}
	lo, hi := q.Get("effect_min"), q.Get("effect_max")
	if lo != "" || hi != "" {
		r := [2]float64{-1e9, 1e9}
		if lo != "" {
			v, err := strconv.ParseFloat(lo, 64)
			if err != nil {
				return f, errInvalidParam("effect_min", lo)
			}
			r[0] = v
		}
		if hi != "" {
			v, err := strconv.ParseFloat(hi, 64)
			if err != nil {
				return f, errInvalidParam("effect_max", hi)
			}
			r[1] = v
		}
		f.EffectSizeRange = &r
	}
	return f, nil
}

type paramError struct{ name, value string }

func errInvalidParam(name, value string) error { return paramError{name, value} }
func (e paramError) Error() string             { return "invalid " + e.name + " value: " + e.value }

func (s *Server) handleFacets(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, search.AvailableFacets(s.current().querier))
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.semantic == nil {
		s.writeError(w, http.StatusServiceUnavailable, "semantic search is not configured")
		return
	}
	var req searchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	results, err := s.semantic.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

type matchRequest struct {
	Pattern search.Pattern `json:"pattern"`
	TopK    int            `json:"top_k,omitempty"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Pattern == (search.Pattern{}) {
		s.writeError(w, http.StatusBadRequest, "pattern must set at least one attribute")
		return
	}
	if req.Pattern.Construct != "" {
		req.Pattern.Construct = resolveIRI(req.Pattern.Construct)
	}
	s.writeJSON(w, http.StatusOK, s.current().scorer.FindSimilar(req.Pattern, req.TopK))
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explain.Request
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Measure == "" {
		s.writeError(w, http.StatusBadRequest, "measure is required")
		return
	}
	req.Measure = resolveIRI(req.Measure)
	if req.Pattern.Construct != "" {
		req.Pattern.Construct = resolveIRI(req.Pattern.Construct)
	}

	text, err := s.current().generator.Generate(req)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"explanation": text})
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	q := r.URL.Query()

	if q.Get("full") == "true" {
		s.writeJSON(w, http.StatusOK, st.network.FullGraph())
		return
	}

	focusInput := q.Get("focus")
	if focusInput == "" {
		s.writeError(w, http.StatusBadRequest, "focus query parameter is required (or full=true)")
		return
	}
	focus, ok := st.network.ResolveFocus(focusInput)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no resource matches "+focusInput)
		return
	}

	depth := 2
	if v := q.Get("depth"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 {
			s.writeError(w, http.StatusBadRequest, errInvalidParam("depth", v).Error())
			return
		}
		depth = d
	}
	s.writeJSON(w, http.StatusOK, st.network.Neighborhood(focus, depth))
}

func (s *Server) handleForest(w http.ResponseWriter, r *http.Request) {
	construct := r.URL.Query().Get("construct")
	if construct == "" {
		s.writeError(w, http.StatusBadRequest, "construct query parameter is required")
		return
	}
	filters, err := parseFilters(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	evidence := s.current().querier.EvidenceForConstruct(resolveIRI(construct))
	s.writeJSON(w, http.StatusOK, viz.ForestPlot(search.ApplyFilters(evidence, filters)))
}
