package httpapi

import (
	"net/http"

	"github.com/tippspiel-app/tippspiel/internal/domain/leaderboard"
)

type leaderboardRowResponse struct {
	Rank        int    `json:"rank"`
	UserID      int64  `json:"userId"`
	DisplayName string `json:"displayName"`
	TotalPoints int    `json:"totalPoints"`
	TipsPoints  int    `json:"tipsPoints"`
	BonusPoints int    `json:"bonusPoints"`
}

func toLeaderboardResponse(rows []leaderboard.Row) []leaderboardRowResponse {
	out := make([]leaderboardRowResponse, 0, len(rows))
	for i, row := range rows {
		out = append(out, leaderboardRowResponse{
			Rank:        i + 1,
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			TotalPoints: row.TotalPoints,
			TipsPoints:  row.TipsPoints,
			BonusPoints: row.BonusPoints,
		})
	}
	return out
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	seasonID, err := h.seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rows, err := h.leaderboardService.ComputeSeason(ctx, seasonID)
	if err != nil {
		h.logger.ErrorContext(ctx, "compute leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toLeaderboardResponse(rows))
}

func (h *Handler) RecomputeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeLeaderboard")
	defer span.End()

	seasonID, err := h.seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	changed, err := h.leaderboardService.RecomputeSeason(ctx, seasonID)
	if err != nil {
		h.logger.ErrorContext(ctx, "recompute leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"entriesChanged": changed})
}
