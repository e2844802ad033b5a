package httpapi

import (
	"net/http"

	"github.com/tippspiel-app/tippspiel/internal/usecase"
)

type importJobRequest struct {
	League string `json:"league" validate:"required"`
	Season int    `json:"season" validate:"required,gte=1900,lte=2999"`
	DryRun bool   `json:"dryRun"`
}

func (h *Handler) RunBootstrapJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBootstrapJob")
	defer span.End()

	var req importJobRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.importerService.Bootstrap(ctx, usecase.ImportInput{
		LeagueShortcut: req.League,
		SeasonYear:     req.Season,
		DryRun:         req.DryRun,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "bootstrap job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunSmartUpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSmartUpdateJob")
	defer span.End()

	var req importJobRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.importerService.SmartUpdate(ctx, usecase.ImportInput{
		LeagueShortcut: req.League,
		SeasonYear:     req.Season,
		DryRun:         req.DryRun,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "smart update job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, summary)
}
