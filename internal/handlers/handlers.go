package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Billy-Davies-2/draftkit/internal/dal"
	"github.com/Billy-Davies-2/draftkit/internal/draft"
	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/logger"
	"github.com/Billy-Davies-2/draftkit/internal/models"
	"github.com/Billy-Davies-2/draftkit/internal/pubsub"
)

// KeepaliveInterval is how often an idle SSE stream gets a comment line
var KeepaliveInterval = 30 * time.Second

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// APIHandlers contains all API handler methods
type APIHandlers struct {
	svc    *draft.Service
	events pubsub.Source
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(svc *draft.Service, events pubsub.Source) *APIHandlers {
	return &APIHandlers{
		svc:    svc,
		events: events,
	}
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, dal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, draft.ErrInvalidRequest),
		errors.Is(err, draft.ErrNoTeamOnClock),
		errors.Is(err, dal.ErrInvalidCandidate),
		errors.Is(err, dal.ErrInvalidTeam),
		errors.Is(err, dal.ErrAlreadyDrafted),
		errors.Is(err, dal.ErrDraftComplete),
		errors.Is(err, engine.ErrInvalidSlot):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, msg string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error(msg, "error", err)
	} else {
		logger.Warn(msg, "error", err)
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, map[string]bool{"ok": true})
}

// decode reads a JSON body for a POST request. It writes the error response
// itself and reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warn("Failed to decode request", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// GetDraftState returns the current draft state
func (h *APIHandlers) GetDraftState(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	logger.Debug("Getting draft state")
	state, err := h.svc.State()
	if err != nil {
		writeError(w, "Failed to get draft state", err)
		return
	}
	writeJSON(w, state)
}

// DraftPick drafts a candidate to a team
func (h *APIHandlers) DraftPick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CandidateID string `json:"candidateId"`
		TeamID      string `json:"teamId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.CandidateID == "" || req.TeamID == "" {
		http.Error(w, "candidateId and teamId are required", http.StatusBadRequest)
		return
	}

	pick, err := h.svc.Pick(req.CandidateID, req.TeamID)
	if err != nil {
		writeError(w, "Failed to draft candidate", err)
		return
	}
	writeJSON(w, pick)
}

// AutoPick lets the engine pick for a team, defaulting to the team on the clock
func (h *APIHandlers) AutoPick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID string `json:"teamId"`
	}
	if !decode(w, r, &req) {
		return
	}

	result, err := h.svc.AutoPick(r.Context(), req.TeamID)
	if err != nil {
		writeError(w, "Auto-pick failed", err)
		return
	}
	writeJSON(w, result)
}

// ResetDraft resets the draft to initial state
func (h *APIHandlers) ResetDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.svc.Reset(); err != nil {
		writeError(w, "Failed to reset draft", err)
		return
	}
	writeOK(w)
}

// ListTeams returns all teams in draft order
func (h *APIHandlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	state, err := h.svc.State()
	if err != nil {
		writeError(w, "Failed to list teams", err)
		return
	}
	writeJSON(w, state.Teams)
}

// AddTeam creates a new team
func (h *APIHandlers) AddTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Owner string `json:"owner"`
	}
	if !decode(w, r, &req) {
		return
	}

	team, err := h.svc.AddTeam(req.Name, req.Owner)
	if err != nil {
		writeError(w, "Failed to add team", err)
		return
	}
	writeJSON(w, team)
}

// ReorderTeams sets the draft order from a list of team ids
func (h *APIHandlers) ReorderTeams(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order []string `json:"order"`
	}
	if !decode(w, r, &req) {
		return
	}

	teams, err := h.svc.ReorderTeams(req.Order)
	if err != nil {
		writeError(w, "Failed to reorder teams", err)
		return
	}
	writeJSON(w, teams)
}

// AddCandidate adds a candidate to the pool
func (h *APIHandlers) AddCandidate(w http.ResponseWriter, r *http.Request) {
	var c models.Candidate
	if !decode(w, r, &c) {
		return
	}

	out, err := h.svc.AddCandidate(&c)
	if err != nil {
		writeError(w, "Failed to add candidate", err)
		return
	}
	writeJSON(w, out)
}

// UpdateCandidate replaces an undrafted candidate
func (h *APIHandlers) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var c models.Candidate
	if !decode(w, r, &c) {
		return
	}
	if c.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	out, err := h.svc.UpdateCandidate(&c)
	if err != nil {
		writeError(w, "Failed to update candidate", err)
		return
	}
	writeJSON(w, out)
}

// DeleteCandidate removes an undrafted candidate
func (h *APIHandlers) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteCandidate(req.ID); err != nil {
		writeError(w, "Failed to delete candidate", err)
		return
	}
	writeOK(w)
}

// SetADP sets a candidate's average draft position
func (h *APIHandlers) SetADP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID  string  `json:"id"`
		ADP float64 `json:"adp"`
	}
	if !decode(w, r, &req) {
		return
	}

	out, err := h.svc.SetADP(req.ID, req.ADP)
	if err != nil {
		writeError(w, "Failed to set ADP", err)
		return
	}
	writeJSON(w, out)
}

// Recommendations ranks candidates for a team
func (h *APIHandlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	q := r.URL.Query()
	recs, err := h.svc.Recommend(q.Get("teamId"), q.Get("strategy"), q.Get("risk"))
	if err != nil {
		writeError(w, "Failed to build recommendations", err)
		return
	}
	writeJSON(w, recs)
}

// Tiers returns position tiers for the available pool
func (h *APIHandlers) Tiers(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	tiers, err := h.svc.Tiers(r.URL.Query().Get("position"))
	if err != nil {
		writeError(w, "Failed to build tiers", err)
		return
	}
	writeJSON(w, tiers)
}

// Board returns the turn analysis, dropoffs and trade ideas for a team
func (h *APIHandlers) Board(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	board, err := h.svc.Board(r.URL.Query().Get("teamId"))
	if err != nil {
		writeError(w, "Failed to build board", err)
		return
	}
	writeJSON(w, board)
}

// Keepers selects keepers from the submitted candidates
func (h *APIHandlers) Keepers(w http.ResponseWriter, r *http.Request) {
	var req draft.KeeperRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, h.svc.SelectKeepers(req))
}

// Analytics grades a team's draft so far
func (h *APIHandlers) Analytics(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	out, err := h.svc.Analyze(r.URL.Query().Get("teamId"))
	if err != nil {
		writeError(w, "Failed to analyze draft", err)
		return
	}
	writeJSON(w, out)
}

// EventsSSE provides Server-Sent Events for realtime updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.events.Subscribe()
	defer h.events.Unsubscribe(eventChan)

	flush := func() {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	flush()

	keepalive := time.NewTicker(KeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Warn("Failed to encode event", "type", event.Type, "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flush()
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flush()
		}
	}
}
