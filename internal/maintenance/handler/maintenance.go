package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gearbook/internal/maintenance/service"
	httputil "gearbook/pkg/http"
	"gearbook/pkg/logger"
	"gearbook/pkg/model"
)

type MaintenanceHandler struct {
	service service.MaintenanceService
	log     *logger.Logger
}

func NewMaintenanceHandler(service service.MaintenanceService, log *logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		service: service,
		log:     log,
	}
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var entry model.MaintenanceEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	// The path owns the item binding; a mismatched body item_id is
	// ignored rather than trusted.
	entry.ItemID = ps.ByName("id")

	if err := h.service.Create(r.Context(), &entry); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, entry); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *MaintenanceHandler) GetByItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByItem", "error", writeErr)
		}
		return
	}

	entries, total, err := h.service.GetByItem(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByItem", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, entries, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByItem", "error", err)
	}
}

func (h *MaintenanceHandler) TotalCost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	total, err := h.service.TotalCost(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "TotalCost", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"total_cost": total}); err != nil {
		h.log.Error("failed to write success response", "handler", "TotalCost", "error", err)
	}
}

func (h *MaintenanceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	entry, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entry); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.MaintenanceUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MaintenanceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/items/id/:id/maintenance", h.Create)
	router.GET("/api/v1/items/id/:id/maintenance", h.GetByItem)
	router.GET("/api/v1/items/id/:id/maintenance/total", h.TotalCost)
	router.GET("/api/v1/maintenance/id/:id", h.GetByID)
	router.PATCH("/api/v1/maintenance/id/:id", h.Update)
	router.DELETE("/api/v1/maintenance/id/:id", h.Delete)
}
