package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
	"github.com/tippspiel-app/tippspiel/internal/usecase"
)

type Handler struct {
	seasonService      *usecase.SeasonService
	leaderboardService *usecase.LeaderboardService
	tipService         *usecase.TipService
	importerService    *usecase.ImporterService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	seasonService *usecase.SeasonService,
	leaderboardService *usecase.LeaderboardService,
	tipService *usecase.TipService,
	importerService *usecase.ImporterService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		seasonService:      seasonService,
		leaderboardService: leaderboardService,
		tipService:         tipService,
		importerService:    importerService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// seasonFromPath resolves the {league}/{year} path segments to a stored
// season id.
func (h *Handler) seasonFromPath(r *http.Request) (int64, error) {
	leagueShortcut := r.PathValue("league")
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return 0, fmt.Errorf("%w: season year must be numeric", usecase.ErrInvalidInput)
	}
	season, err := h.seasonService.ResolveSeason(r.Context(), leagueShortcut, year)
	if err != nil {
		return 0, err
	}
	return season.ID, nil
}
