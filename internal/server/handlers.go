package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/queryir"
	"github.com/roach88/viewdeps/internal/render"
)

// Error codes returned in the JSON error envelope.
const (
	ErrCodeMissingQuery = "E010" // q absent or without terms
	ErrCodeBadParam     = "E011" // malformed query parameter
	ErrCodeUnauthorized = "E012" // rejected by the gate
	ErrCodeSearchFailed = "E013" // backend error
	ErrCodeReloadFailed = "E014" // catalog reload error
)

// Response is the JSON envelope of every route.
type Response struct {
	Status    string    `json:"status"` // "ok" or "error"
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is the error member of Response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatsData is the payload of /stats and /reload.
type StatsData struct {
	catalog.Stats
	Generation  int64          `json:"generation"`
	LoadedAt    time.Time      `json:"loaded_at"`
	SkippedCode int            `json:"skipped_code"`
	Backend     string         `json:"backend"`
	Source      catalog.Source `json:"source"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, Response{Status: "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query().Get("q")
	if len(queryir.Tokenize(query)) == 0 {
		writeError(w, r, http.StatusBadRequest, ErrCodeMissingQuery, "query parameter q is required")
		return
	}

	explain := false
	if raw := r.URL.Query().Get("explain"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, ErrCodeBadParam, "explain must be a boolean")
			return
		}
		explain = v
	}

	if explain {
		ex, gen := s.explain(query)
		s.logger.Info("explain",
			"request_id", RequestID(r.Context()),
			"query", query,
			"terms", len(ex.Terms),
			"matched", ex.Matched,
			"generation", gen.Seq,
			"duration", time.Since(start),
		)
		writeJSON(w, r, http.StatusOK, Response{Status: "ok", Data: ex})
		return
	}

	records, gen, err := s.search(r.Context(), query)
	if err != nil {
		s.logger.Error("search failed", "request_id", RequestID(r.Context()), "query", query, "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeSearchFailed, "search failed")
		return
	}

	s.logger.Info("search",
		"request_id", RequestID(r.Context()),
		"query", query,
		"terms", len(queryir.Tokenize(query)),
		"results", len(records),
		"generation", gen.Seq,
		"backend", s.BackendName(),
		"duration", time.Since(start),
	)

	writeJSON(w, r, http.StatusOK, Response{Status: "ok", Data: render.NewPayload(query, records)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, Response{Status: "ok", Data: s.stats(s.holder.Current())})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	gen, err := s.Reload(r.Context())
	if err != nil {
		s.logger.Error("reload failed", "request_id", RequestID(r.Context()), "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrCodeReloadFailed, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Status: "ok", Data: s.stats(gen)})
}

func (s *Server) stats(gen *catalog.Generation) StatsData {
	return StatsData{
		Stats:       gen.Snapshot.Stats(),
		Generation:  gen.Seq,
		LoadedAt:    gen.Report.LoadedAt,
		SkippedCode: gen.Report.SkippedCode,
		Backend:     s.BackendName(),
		Source:      gen.Report.Source,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	resp.RequestID = RequestID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, Response{
		Status: "error",
		Error:  &APIError{Code: code, Message: message},
	})
}
