package main

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type runSummary struct {
	RunID       string    `json:"runId"`
	CreatedAt   time.Time `json:"createdAt"`
	PlayerCount int       `json:"playerCount"`
}

func (s *Server) GETScoreboard(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.latestEntries(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := RenderJSON(w, entries); err != nil {
		s.log.Errorf("Write scoreboard %s: %v", chi.URLParam(r, "id"), err)
	}
}

func (s *Server) GETScoreboardHTML(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.latestEntries(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderHTML(w, chi.URLParam(r, "id"), entries); err != nil {
		s.log.Errorf("Write scoreboard page %s: %v", chi.URLParam(r, "id"), err)
	}
}

func (s *Server) latestEntries(w http.ResponseWriter, r *http.Request) ([]MergedEntry, bool) {
	id := chi.URLParam(r, "id")
	entries, err := s.archive.LatestEntries(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Tournament not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.log.Errorf("Load scoreboard %s: %v", id, err)
		http.Error(w, "Failed to load scoreboard", http.StatusInternalServerError)
		return nil, false
	}
	return entries, true
}

func (s *Server) GETRuns(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	runs, err := s.archive.Runs(id)
	if err != nil {
		http.Error(w, "Failed to load runs", http.StatusInternalServerError)
		return
	}
	if len(runs) == 0 {
		http.Error(w, "Tournament not found", http.StatusNotFound)
		return
	}

	resp := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, runSummary{
			RunID:       run.RunID,
			CreatedAt:   run.CreatedAt,
			PlayerCount: run.PlayerCount,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Errorf("Write runs %s: %v", id, err)
	}
}

func (s *Server) POSTRefresh(w http.ResponseWriter, r *http.Request) {
	lctx, err := s.refreshLimiter.Get(r.Context(), refreshRateLimitKey(r))
	if err != nil {
		http.Error(w, "Rate limiter error", http.StatusInternalServerError)
		return
	}
	if lctx.Reached {
		http.Error(w, "Too many refresh requests", http.StatusTooManyRequests)
		return
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	res, err := s.pipeline.Run(r.Context())
	if err != nil {
		s.log.Errorf("Refresh failed: %v", err)
		var remote *RemoteRequestError
		if errors.As(err, &remote) {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		http.Error(w, "Refresh failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"tournamentId": s.pipeline.TournamentID,
		"runId":        res.RunID,
		"players":      len(res.Entries),
	}); err != nil {
		s.log.Errorf("Write refresh response: %v", err)
	}
}

func refreshRateLimitKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
