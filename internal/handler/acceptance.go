package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/service/acceptance"
)

type AcceptanceHandler struct {
	service *acceptance.Service
}

func NewAcceptanceHandler(service *acceptance.Service) *AcceptanceHandler {
	return &AcceptanceHandler{service: service}
}

func (h *AcceptanceHandler) RegisterRoutes(r *gin.RouterGroup) {
	acceptances := r.Group("/acceptances")
	{
		acceptances.POST("", h.Create)
		acceptances.GET("", h.List)
		acceptances.GET("/:id", h.Get)
		acceptances.PUT("/:id", h.Update)
		acceptances.DELETE("/:id", h.Delete)
	}
}

func (h *AcceptanceHandler) Create(c *gin.Context) {
	var req model.CreateAcceptanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, created)
}

func (h *AcceptanceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, found)
}

func (h *AcceptanceHandler) List(c *gin.Context) {
	filters := &model.AcceptanceFilters{}
	if v := c.Query("shift_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.ShiftID = &id
		}
	}
	if v := c.Query("clinician_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.ClinicianID = &id
		}
	}
	if v := c.Query("status"); v != "" {
		status := model.AcceptanceStatus(v)
		filters.Status = &status
	}

	acceptances, err := h.service.List(c.Request.Context(), actorFrom(c), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, acceptances)
}

func (h *AcceptanceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAcceptanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, updated)
}

func (h *AcceptanceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil)
}
