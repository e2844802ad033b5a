package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/tippspiel-app/tippspiel/internal/usecase"
)

type upsertTipRequest struct {
	UserID    int64 `json:"userId" validate:"required,gt=0"`
	MatchID   int64 `json:"matchId" validate:"required,gt=0"`
	HomeGoals *int  `json:"homeGoals" validate:"required,gte=0"`
	AwayGoals *int  `json:"awayGoals" validate:"required,gte=0"`
}

type upsertBonusTipRequest struct {
	UserID          int64 `json:"userId" validate:"required,gt=0"`
	MatchdayID      int64 `json:"matchdayId" validate:"required,gt=0"`
	FirstGoalMinute *int  `json:"firstGoalMinute" validate:"required,gte=0,lte=130"`
}

type tipUpsertResponse struct {
	Created bool `json:"created"`
	Updated bool `json:"updated"`
}

func (h *Handler) UpsertTip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertTip")
	defer span.End()

	var req upsertTipRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.tipService.UpsertTip(ctx, usecase.UpsertTipInput{
		UserID:    req.UserID,
		MatchID:   req.MatchID,
		HomeGoals: *req.HomeGoals,
		AwayGoals: *req.AwayGoals,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, tipUpsertResponse{Created: result.Created, Updated: result.Updated})
}

func (h *Handler) UpsertBonusTip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertBonusTip")
	defer span.End()

	var req upsertBonusTipRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.tipService.UpsertBonusTip(ctx, usecase.UpsertBonusTipInput{
		UserID:          req.UserID,
		MatchdayID:      req.MatchdayID,
		FirstGoalMinute: *req.FirstGoalMinute,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, tipUpsertResponse{Created: result.Created, Updated: result.Updated})
}

type tipResponse struct {
	MatchID   int64     `json:"matchId"`
	HomeGoals int       `json:"homeGoals"`
	AwayGoals int       `json:"awayGoals"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type bonusTipResponse struct {
	MatchdayID      int64     `json:"matchdayId"`
	FirstGoalMinute int       `json:"firstGoalMinute"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type userSeasonTipsResponse struct {
	UserID    int64              `json:"userId"`
	Tips      []tipResponse      `json:"tips"`
	BonusTips []bonusTipResponse `json:"bonusTips"`
}

func (h *Handler) ListUserSeasonTips(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserSeasonTips")
	defer span.End()

	userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: user id must be numeric", usecase.ErrInvalidInput))
		return
	}
	seasonID, err := h.seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tips, err := h.tipService.ListUserSeasonTips(ctx, userID, seasonID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := userSeasonTipsResponse{
		UserID:    userID,
		Tips:      make([]tipResponse, 0, len(tips.Tips)),
		BonusTips: make([]bonusTipResponse, 0, len(tips.BonusTips)),
	}
	for _, t := range tips.Tips {
		resp.Tips = append(resp.Tips, tipResponse{
			MatchID:   t.MatchID,
			HomeGoals: t.HomeGoalsPredicted,
			AwayGoals: t.AwayGoalsPredicted,
			UpdatedAt: t.UpdatedAt,
		})
	}
	for _, b := range tips.BonusTips {
		resp.BonusTips = append(resp.BonusTips, bonusTipResponse{
			MatchdayID:      b.MatchdayID,
			FirstGoalMinute: b.FirstGoalMinutePredicted,
			UpdatedAt:       b.UpdatedAt,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) decodeAndValidate(r *http.Request, target any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput)
	}
	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
