package httpapi

import (
	"net/http"

	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, internalJobToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)
	registerTipRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{league}/seasons/{year}/status", handler.GetSeasonStatus)
	mux.HandleFunc("GET /v1/leagues/{league}/seasons/{year}/matchdays", handler.ListMatchdays)
	mux.HandleFunc("GET /v1/leagues/{league}/seasons/{year}/leaderboard", handler.GetLeaderboard)
}

func registerTipRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("PUT /v1/tips", handler.UpsertTip)
	mux.HandleFunc("PUT /v1/bonus-tips", handler.UpsertBonusTip)
	mux.HandleFunc("GET /v1/leagues/{league}/seasons/{year}/users/{userID}/tips", handler.ListUserSeasonTips)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/bootstrap", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBootstrapJob)))
	mux.Handle("POST /v1/internal/jobs/update", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSmartUpdateJob)))
	mux.Handle("POST /v1/internal/leagues/{league}/seasons/{year}/leaderboard/recompute", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecomputeLeaderboard)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
