package httpapi

import (
	"net/http"
	"time"
)

type seasonStatusResponse struct {
	State          string                  `json:"state"`
	ActiveMatchday *matchdayStatusResponse `json:"activeMatchday,omitempty"`
	NextKickoffAt  *time.Time              `json:"nextKickoffAt,omitempty"`
}

type matchdayStatusResponse struct {
	ID               int64     `json:"id"`
	OrderID          int       `json:"orderId"`
	Name             string    `json:"name"`
	DeadlineAt       time.Time `json:"deadlineAt"`
	IsOpenForTipping bool      `json:"isOpenForTipping"`
}

type matchdayResponse struct {
	ID               int64      `json:"id"`
	OrderID          int        `json:"orderId"`
	Name             string     `json:"name"`
	DeadlineAt       time.Time  `json:"deadlineAt"`
	IsOpenForTipping bool       `json:"isOpenForTipping"`
	FirstGoalAt      *time.Time `json:"firstGoalAt,omitempty"`
	FirstGoalMatchID *int64     `json:"firstGoalMatchId,omitempty"`
	FirstGoalMinute  *int       `json:"firstGoalMinute,omitempty"`
}

func (h *Handler) ListMatchdays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchdays")
	defer span.End()

	seasonID, err := h.seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchdays, err := h.seasonService.ListMatchdays(ctx, seasonID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matchdays failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	now := time.Now()
	out := make([]matchdayResponse, 0, len(matchdays))
	for _, md := range matchdays {
		out = append(out, matchdayResponse{
			ID:               md.ID,
			OrderID:          md.OrderID,
			Name:             md.Name,
			DeadlineAt:       md.DeadlineAt,
			IsOpenForTipping: md.IsOpenForTipping(now),
			FirstGoalAt:      md.FirstGoalAt,
			FirstGoalMatchID: md.FirstGoalMatchID,
			FirstGoalMinute:  md.FirstGoalMinute,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetSeasonStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStatus")
	defer span.End()

	seasonID, err := h.seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	status, err := h.seasonService.Status(ctx, seasonID)
	if err != nil {
		h.logger.ErrorContext(ctx, "season status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	resp := seasonStatusResponse{State: string(status.State), NextKickoffAt: status.NextKickoffAt}
	if md := status.ActiveMatchday; md != nil {
		resp.ActiveMatchday = &matchdayStatusResponse{
			ID:               md.ID,
			OrderID:          md.OrderID,
			Name:             md.Name,
			DeadlineAt:       md.DeadlineAt,
			IsOpenForTipping: md.IsOpenForTipping(time.Now()),
		}
	}
	writeSuccess(ctx, w, http.StatusOK, resp)
}
