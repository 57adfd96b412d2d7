package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gearbook/internal/schedule/service"
	"gearbook/pkg/calendar"
	apperrors "gearbook/pkg/errors"
	httputil "gearbook/pkg/http"
	"gearbook/pkg/logger"
)

type ScheduleHandler struct {
	service service.ScheduleService
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log,
	}
}

func (h *ScheduleHandler) Events(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	events, err := h.service.Events(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Events", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, events); err != nil {
		h.log.Error("failed to write success response", "handler", "Events", "error", err)
	}
}

func (h *ScheduleHandler) View(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	view, err := h.service.View(r.Context(), query.Get("date"), calendar.ViewMode(query.Get("mode")))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "View", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "View", "error", err)
	}
}

func (h *ScheduleHandler) Navigate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	var direction int
	switch query.Get("direction") {
	case "next":
		direction = 1
	case "prev":
		direction = -1
	default:
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("direction must be 'next' or 'prev'")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Navigate", "error", writeErr)
		}
		return
	}

	anchor, err := h.service.Navigate(query.Get("date"), calendar.ViewMode(query.Get("mode")), direction)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Navigate", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"date": anchor}); err != nil {
		h.log.Error("failed to write success response", "handler", "Navigate", "error", err)
	}
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/schedule/events", h.Events)
	router.GET("/api/v1/schedule/view", h.View)
	router.GET("/api/v1/schedule/navigate", h.Navigate)
}
