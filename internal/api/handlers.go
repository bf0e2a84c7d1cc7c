package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/arveiter/blockplan/internal/block"
	"github.com/arveiter/blockplan/internal/dateutil"
	"github.com/arveiter/blockplan/internal/planner"
	"github.com/arveiter/blockplan/internal/reflow"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes: unknown ids are 404,
// malformed input is 400, everything else is 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, block.ErrBlockNotFound):
		status = http.StatusNotFound
	case errors.Is(err, block.ErrUnresolvedInterval),
		errors.Is(err, block.ErrInvalidTimestamp),
		errors.Is(err, block.ErrEndBeforeStart),
		errors.Is(err, block.ErrEmptyTitle),
		errors.Is(err, block.ErrInvalidDuration),
		errors.Is(err, block.ErrInvalidCategory),
		errors.Is(err, block.ErrInvalidPriority),
		errors.Is(err, dateutil.ErrInvalidDateFormat),
		errors.Is(err, dateutil.ErrInvalidTimeFormat):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.log.Errorf("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return false
	}
	return true
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "blockplan",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type noteRequest struct {
	Text     string `json:"text"`
	Priority *int   `json:"priority,omitempty"`
}

func (s *Server) handlePreviewNote(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	preview, err := s.planner.PreviewNote(r.Context(), req.Text, req.Priority, time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleConfirmNote(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req planner.ConfirmRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.planner.Confirm(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	writeJSON(w, http.StatusOK, s.planner.ParseNote(req.Text, time.Now()))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	preview, err := s.planner.PlanNote(r.Context(), req.Text, time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	blocks, err := s.planner.Blocks(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if blocks == nil {
		blocks = []*block.Block{}
	}
	writeJSON(w, http.StatusOK, blocks)
}

type updatedTimes struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type adjustResponse struct {
	Updates map[int64]updatedTimes `json:"updates"`
}

func (s *Server) handleAdjustBlock(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req reflow.Request
	if !decodeBody(w, r, &req) {
		return
	}

	updates, err := s.planner.Adjust(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := adjustResponse{Updates: make(map[int64]updatedTimes, len(updates))}
	for _, u := range updates {
		resp.Updates[u.ID] = updatedTimes{Start: u.NewStart, End: u.NewEnd}
	}
	writeJSON(w, http.StatusOK, resp)
}
