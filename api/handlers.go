package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"set-game-server/auth"
	"set-game-server/config"
	"set-game-server/session"
	"set-game-server/sessionerrors"
	"set-game-server/skin"
	"set-game-server/storage"
)

const bearerPrefix = "Bearer "

// Handler holds dependencies for API handlers.
type Handler struct {
	Config   *config.Config
	Store    storage.RoundStore
	Sessions *session.Manager
	Skins    *skin.Registry
	Auth     *auth.Validator
}

// NewHandler creates a new API handler with the given dependencies.
// store and validator may be nil.
func NewHandler(cfg *config.Config, store storage.RoundStore, sessions *session.Manager, skins *skin.Registry, validator *auth.Validator) *Handler {
	return &Handler{
		Config:   cfg,
		Store:    store,
		Sessions: sessions,
		Skins:    skins,
		Auth:     validator,
	}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/skins", h.ListSkins)
	mux.HandleFunc("/api/sessions", h.SessionStats)
	mux.HandleFunc("/api/sessions/{id}", h.SessionView)
	mux.HandleFunc("/api/history", h.History)
	mux.HandleFunc("/api/leaderboard", h.Leaderboard)
}

// CORS sets CORS headers on the response. Call before writing body.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// preflight handles CORS and rejects non-GET methods. It reports whether
// the request was fully handled.
func preflight(w http.ResponseWriter, r *http.Request) bool {
	if CORS(w, r) {
		return true
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "tag", "api", "err", err)
	}
}

// extractUserID validates the Authorization header and returns the user ID, or empty string on failure.
func (h *Handler) extractUserID(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) || h.Auth == nil {
		return ""
	}
	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	claims, err := h.Auth.Validate(token)
	if err != nil {
		return ""
	}
	return auth.UserIDFromClaims(claims)
}

// ListSkins returns every available skin.
func (h *Handler) ListSkins(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	writeJSON(w, h.Skins.List())
}

// SessionStatsResponse is the JSON structure for /api/sessions.
type SessionStatsResponse struct {
	Active int `json:"active"`
	Max    int `json:"max"`
}

// SessionStats reports how many sessions are running.
func (h *Handler) SessionStats(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	writeJSON(w, SessionStatsResponse{Active: h.Sessions.Count(), Max: h.Config.MaxSessions})
}

// SessionView returns the latest view of one running session.
func (h *Handler) SessionView(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	s, err := h.Sessions.Get(r.PathValue("id"))
	if errors.Is(err, sessionerrors.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.LastView())
}

// History returns the round history for the authenticated user.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	userID := h.extractUserID(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	list := []storage.RoundRecord{}
	if h.Store != nil {
		var err error
		list, err = h.Store.ListByUserID(r.Context(), userID)
		if err != nil {
			slog.Error("ListByUserID", "tag", "api", "err", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, list)
}

// LeaderboardResponse is the JSON structure for /api/leaderboard.
type LeaderboardResponse struct {
	Entries          []storage.LeaderboardEntry `json:"entries"`
	CurrentUserEntry *storage.LeaderboardEntry  `json:"current_user_entry"`
}

// Leaderboard returns the best scores with optional current user entry.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	entries := []storage.LeaderboardEntry{}
	if h.Store != nil {
		var err error
		entries, err = h.Store.ListLeaderboard(r.Context(), limit, offset)
		if err != nil {
			slog.Error("ListLeaderboard", "tag", "api", "err", err)
			http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
			return
		}
	}

	var currentUserEntry *storage.LeaderboardEntry
	authUserID := h.extractUserID(r)
	if authUserID != "" && h.Store != nil {
		cur, err := h.Store.GetLeaderboardEntryByUserID(r.Context(), authUserID)
		if err != nil {
			slog.Error("GetLeaderboardEntryByUserID", "tag", "api", "err", err)
		} else if cur != nil {
			inTop := false
			for i := range entries {
				if entries[i].UserID == authUserID {
					entries[i].IsCurrentUser = true
					inTop = true
					break
				}
			}
			if !inTop {
				cur.IsCurrentUser = true
				currentUserEntry = cur
			}
		}
	}

	writeJSON(w, LeaderboardResponse{Entries: entries, CurrentUserEntry: currentUserEntry})
}
