package server

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"worldstats/internal/dashboard"
	"worldstats/internal/dataset"
	"worldstats/internal/filter"
)

type Server struct {
	Store *dashboard.Store
}

type sessionResponse struct {
	SessionID string             `json:"session_id"`
	Snapshot  dashboard.Snapshot `json:"snapshot"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

// getSession resolves the session from the {id} route parameter.
func (s *Server) getSession(r *http.Request) *dashboard.Session {
	return s.Store.Get(chi.URLParam(r, "id"))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Store.Create()
	if err != nil {
		log.Error().Err(err).Msg("creating session")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to create session"})
		return
	}

	log.Info().Str("session", sess.ID).Msg("session created")
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sess.ID, Snapshot: sess.Snapshot()})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Snapshot: sess.Snapshot()})
}

func (s *Server) handleSetParams(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}

	var params filter.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	snap, err := sess.SetParams(params)
	if err != nil {
		if errors.Is(err, filter.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		log.Error().Err(err).Str("session", sess.ID).Msg("setting params")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "recompute failed"})
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Snapshot: snap})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	s.Store.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

type metaResponse struct {
	Modes     []string      `json:"modes"`
	Biomes    []string      `json:"biomes"`
	Resources []string      `json:"resources"`
	Styles    []string      `json:"styles"`
	Causes    []string      `json:"causes"`
	DayMin    int           `json:"day_min"`
	DayMax    int           `json:"day_max"`
	Defaults  filter.Params `json:"defaults"`
}

// handleMeta serves the option lists a front end needs to build its filter
// controls. Biomes and resources are sorted alphabetically for multiselects.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	maxDays := s.Store.Tables().MaxDays

	meta := metaResponse{
		DayMin:   1,
		DayMax:   maxDays,
		Defaults: filter.DefaultParams(maxDays),
	}
	for _, m := range dataset.Modes {
		meta.Modes = append(meta.Modes, string(m))
	}
	for _, b := range dataset.Biomes {
		meta.Biomes = append(meta.Biomes, string(b))
	}
	for _, res := range dataset.Resources {
		meta.Resources = append(meta.Resources, string(res))
	}
	for _, st := range dataset.Styles {
		meta.Styles = append(meta.Styles, string(st))
	}
	for _, c := range dataset.Causes {
		meta.Causes = append(meta.Causes, string(c))
	}
	sort.Strings(meta.Biomes)
	sort.Strings(meta.Resources)

	writeJSON(w, http.StatusOK, meta)
}

// handleRaw serves a full raw table by name.
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	tables := s.Store.Tables()

	switch chi.URLParam(r, "table") {
	case "activity":
		writeJSON(w, http.StatusOK, tables.Activity)
	case "mining":
		writeJSON(w, http.StatusOK, tables.Mining)
	case "economy":
		writeJSON(w, http.StatusOK, tables.Economy)
	case "deaths":
		writeJSON(w, http.StatusOK, tables.Deaths)
	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown table"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.Store.Count(),
	})
}
