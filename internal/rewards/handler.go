package rewards

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fieldscope/fieldscope/pkg/handlers"
	"github.com/fieldscope/fieldscope/pkg/routes"
)

const defaultLeaderboardSize = 20

// Handler provides HTTP endpoints for leaderboard and contributor stats.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "rewards"),
	}
}

// Routes returns the route group definition for reward endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/leaderboard", Handler: h.Leaderboard},
			{Method: "GET", Pattern: "/users/{name}/stats", Handler: h.Stats},
			{Method: "GET", Pattern: "/stats/summary", Handler: h.Summary},
		},
	}
}

// Leaderboard returns contributors ranked by total points, truncated to
// the limit query parameter.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultLeaderboardSize
	}

	users, err := h.sys.Leaderboard(r.Context(), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, users)
}

// Stats returns a contributor's reward record (real or synthesized) with
// rank-progress metadata.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.StatsFor(r.Context(), r.PathValue("name"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Summary returns platform-wide contribution totals.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sys.Summary(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}
