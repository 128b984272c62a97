// Package handlers serves the draft HTTP API.
package handlers

import (
	"net/http"

	"github.com/Billy-Davies-2/draftkit/internal/auth"
)

// Routes builds the HTTP mux. Reads are public, changes need a session and
// resetting the draft needs adminGroup.
func Routes(api *APIHandlers, health *Health, provider auth.AuthProvider, adminGroup string) *http.ServeMux {
	mux := http.NewServeMux()
	protect := provider.Middleware
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return provider.Middleware(auth.RequireGroup(adminGroup, next))
	}

	// Auth routes
	mux.HandleFunc("/auth/login", provider.LoginHandler)
	mux.HandleFunc("/auth/callback", provider.CallbackHandler)
	mux.HandleFunc("/auth/logout", provider.LogoutHandler)

	// Draft
	mux.HandleFunc("/api/draft/state", api.GetDraftState)
	mux.HandleFunc("/api/draft/pick", protect(api.DraftPick))
	mux.HandleFunc("/api/draft/autopick", protect(api.AutoPick))
	mux.HandleFunc("/api/draft/reset", admin(api.ResetDraft))

	// Teams
	mux.HandleFunc("/api/teams", api.ListTeams)
	mux.HandleFunc("/api/teams/add", protect(api.AddTeam))
	mux.HandleFunc("/api/teams/reorder", protect(api.ReorderTeams))

	// Candidate pool
	mux.HandleFunc("/api/candidates/add", protect(api.AddCandidate))
	mux.HandleFunc("/api/candidates/update", protect(api.UpdateCandidate))
	mux.HandleFunc("/api/candidates/delete", protect(api.DeleteCandidate))
	mux.HandleFunc("/api/candidates/adp", protect(api.SetADP))

	// Engine
	mux.HandleFunc("/api/recommendations", api.Recommendations)
	mux.HandleFunc("/api/tiers", api.Tiers)
	mux.HandleFunc("/api/board", api.Board)
	mux.HandleFunc("/api/keepers", api.Keepers)
	mux.HandleFunc("/api/analytics", api.Analytics)

	// Realtime events
	mux.HandleFunc("/api/events", api.EventsSSE)

	// Health checks
	mux.HandleFunc("/api/health", health.Handler)
	mux.HandleFunc("/healthz", health.Liveness)
	mux.HandleFunc("/readyz", health.Readiness)

	return mux
}
