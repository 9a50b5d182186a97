package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/service/shift"
)

type ShiftHandler struct {
	service *shift.Service
}

func NewShiftHandler(service *shift.Service) *ShiftHandler {
	return &ShiftHandler{service: service}
}

func (h *ShiftHandler) RegisterRoutes(r *gin.RouterGroup) {
	shifts := r.Group("/shifts")
	{
		shifts.POST("", h.Create)
		shifts.GET("", h.List)
		shifts.GET("/:id", h.Get)
		shifts.PUT("/:id", h.Update)
		shifts.DELETE("/:id", h.Delete)
	}
}

func (h *ShiftHandler) Create(c *gin.Context) {
	var req model.CreateShiftRequest
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

func (h *ShiftHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, found)
}

func (h *ShiftHandler) List(c *gin.Context) {
	filters := &model.ShiftFilters{}
	if v := c.Query("hospital_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.HospitalID = &id
		}
	}
	if v := c.Query("manager_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.ManagerID = &id
		}
	}
	if v := c.Query("status"); v != "" {
		status := model.ShiftStatus(v)
		filters.Status = &status
	}

	shifts, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, shifts)
}

func (h *ShiftHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateShiftRequest
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

func (h *ShiftHandler) Delete(c *gin.Context) {
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
