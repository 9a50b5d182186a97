package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/service/auth"
)

type AuthHandler struct {
	service *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	r.POST("/auth/login", h.LoginUser)
	r.POST("/auth/clinician/login", h.LoginClinician)
	r.POST("/auth/logout", requireAuth, h.Logout)
}

func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.service.LoginUser(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

func (h *AuthHandler) LoginClinician(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.service.LoginClinician(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	actor := actorFrom(c)
	token, _ := c.Get(TokenKey)
	raw, _ := token.(string)

	h.service.Logout(c.Request.Context(), actor, raw)
	respondSuccess(c, http.StatusOK, nil)
}
