package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/service/clinician"
)

type ClinicianHandler struct {
	service *clinician.Service
}

func NewClinicianHandler(service *clinician.Service) *ClinicianHandler {
	return &ClinicianHandler{service: service}
}

// RegisterRoutes wires the clinician endpoints. Registration is public;
// everything else sits behind auth.
func (h *ClinicianHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/clinicians", h.Register)

	clinicians := authed.Group("/clinicians")
	{
		clinicians.GET("", h.List)
		clinicians.GET("/:id", h.Get)
		clinicians.GET("/license/:license", h.GetByLicense)
		clinicians.PUT("/:id", h.Update)
		clinicians.DELETE("/:id", h.Delete)
	}
}

func (h *ClinicianHandler) Register(c *gin.Context) {
	var req model.CreateClinicianRequest
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

func (h *ClinicianHandler) Get(c *gin.Context) {
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

func (h *ClinicianHandler) GetByLicense(c *gin.Context) {
	found, err := h.service.GetByLicense(c.Request.Context(), c.Param("license"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, found)
}

func (h *ClinicianHandler) List(c *gin.Context) {
	clinicians, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, clinicians)
}

func (h *ClinicianHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateClinicianRequest
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

func (h *ClinicianHandler) Delete(c *gin.Context) {
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
