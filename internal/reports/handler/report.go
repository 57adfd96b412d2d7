package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gearbook/internal/reports/service"
	httputil "gearbook/pkg/http"
	"gearbook/pkg/logger"
)

type ReportHandler struct {
	service service.ReportService
	log     *logger.Logger
}

func NewReportHandler(service service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log,
	}
}

func (h *ReportHandler) Depreciation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	report, err := h.service.Depreciation(r.Context(), r.URL.Query().Get("as_of"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Depreciation", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Depreciation", "error", err)
	}
}

func (h *ReportHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reports/depreciation", h.Depreciation)
}
