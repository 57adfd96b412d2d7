package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	httputil "gearbook/pkg/http"
	"gearbook/pkg/logger"
)

// ReadyCheck verifies the service's backing dependencies. Nil means
// the service is ready whenever the process is up.
type ReadyCheck func(ctx context.Context) error

type healthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type healthHandler struct {
	ready ReadyCheck
	log   *logger.Logger
}

func newHealthHandler(ready ReadyCheck, log *logger.Logger) *healthHandler {
	return &healthHandler{ready: ready, log: log}
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "error", err)
	}
}

func (h *healthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.ready(ctx); err != nil {
			h.log.Error("Readiness check failed", "error", err, "path", r.URL.Path)
			if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status: "unavailable",
				Detail: "dependency check failed",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "Ready", "error", writeErr)
			}
			return
		}
	}

	if err := httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ready"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "error", err)
	}
}

func (h *healthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
