package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/service/audit"
)

type AuditHandler struct {
	service *audit.Service
}

func NewAuditHandler(service *audit.Service) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/audit")
	{
		events.GET("", h.List)
		events.GET("/:id", h.Get)
	}
}

func (h *AuditHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "invalid id",
		})
		return
	}

	event, err := h.service.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, event)
}

func (h *AuditHandler) List(c *gin.Context) {
	filters := &model.AuditFilters{}
	if v := c.Query("entity"); v != "" {
		filters.Entity = &v
	}
	if v := c.Query("action"); v != "" {
		action := model.AuditAction(v)
		filters.Action = &action
	}
	if v := c.Query("actor_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.ActorID = &id
		}
	}
	if v := c.Query("hospital_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.HospitalID = &id
		}
	}
	if v := c.Query("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.Since = &t
		}
	}
	if v := c.Query("until"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.Until = &t
		}
	}

	events, err := h.service.List(c.Request.Context(), actorFrom(c), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, events)
}
