package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/service/history"
)

type HistoryHandler struct {
	service *history.Service
}

func NewHistoryHandler(service *history.Service) *HistoryHandler {
	return &HistoryHandler{service: service}
}

func (h *HistoryHandler) RegisterRoutes(r *gin.RouterGroup) {
	manager := r.Group("/history/manager")
	{
		manager.GET("", h.ListManager)
		manager.GET("/:id", h.GetManager)
		manager.PUT("/:id", h.UpdateManager)
	}

	clinician := r.Group("/history/clinician")
	{
		clinician.GET("", h.ListClinician)
		clinician.GET("/:id", h.GetClinician)
		clinician.GET("/license/:license", h.ListClinicianByLicense)
		clinician.PUT("/:id", h.UpdateClinician)
	}

	r.POST("/history/replay/:acceptanceId", h.Replay)
}

func historyFilters(c *gin.Context) *model.HistoryFilters {
	filters := &model.HistoryFilters{}
	if v := c.Query("license"); v != "" {
		filters.License = &v
	}
	if v := c.Query("shift_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.ShiftID = &id
		}
	}
	if v := c.Query("acceptance_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.AcceptanceID = &id
		}
	}
	return filters
}

func (h *HistoryHandler) ListManager(c *gin.Context) {
	rows, err := h.service.ListManager(c.Request.Context(), actorFrom(c), historyFilters(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, rows)
}

func (h *HistoryHandler) GetManager(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	row, err := h.service.GetManager(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, row)
}

func (h *HistoryHandler) UpdateManager(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateManagerHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	row, err := h.service.UpdateManager(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, row)
}

func (h *HistoryHandler) ListClinician(c *gin.Context) {
	rows, err := h.service.ListClinician(c.Request.Context(), actorFrom(c), historyFilters(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, rows)
}

func (h *HistoryHandler) ListClinicianByLicense(c *gin.Context) {
	rows, err := h.service.ListClinicianByLicense(c.Request.Context(), actorFrom(c), c.Param("license"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, rows)
}

func (h *HistoryHandler) GetClinician(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	row, err := h.service.GetClinician(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, row)
}

func (h *HistoryHandler) UpdateClinician(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateClinicianHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	row, err := h.service.UpdateClinician(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, row)
}

func (h *HistoryHandler) Replay(c *gin.Context) {
	acceptanceID, ok := pathID(c, "acceptanceId")
	if !ok {
		return
	}

	// body is optional; absent means default status
	var req model.ReplayHistoryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	managerRow, clinicianRow, err := h.service.Replay(c.Request.Context(), actorFrom(c), acceptanceID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{
		"manager_history":   managerRow,
		"clinician_history": clinicianRow,
	})
}
