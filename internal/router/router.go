// Package router assembles the gin engine: middleware chain, public routes
// and the authenticated API group.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plantaohub/oncall-api/internal/handler"
	"github.com/plantaohub/oncall-api/internal/middleware"
	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/pkg/logger"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Hospital   *handler.HospitalHandler
	User       *handler.UserHandler
	Clinician  *handler.ClinicianHandler
	Shift      *handler.ShiftHandler
	Acceptance *handler.AcceptanceHandler
	History    *handler.HistoryHandler
	Audit      *handler.AuditHandler
	Health     *handler.HealthHandler
}

type Options struct {
	Verifier  middleware.TokenVerifier
	Logger    *logger.Logger
	RateLimit *middleware.RateLimiter
}

func New(h *Handlers, opts *Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = model.RegisterValidations(v)
	}
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(opts.Logger))
	engine.Use(middleware.Recovery(opts.Logger))
	if opts.RateLimit != nil {
		engine.Use(opts.RateLimit.Middleware())
	}

	h.Health.RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.Auth(opts.Verifier)

	public := engine.Group("/api/v1")
	h.Auth.RegisterRoutes(public, requireAuth)

	authed := engine.Group("/api/v1")
	authed.Use(requireAuth)

	h.Hospital.RegisterRoutes(authed)
	h.User.RegisterRoutes(authed)
	h.Clinician.RegisterRoutes(public, authed)
	h.Shift.RegisterRoutes(authed)
	h.Acceptance.RegisterRoutes(authed)
	h.History.RegisterRoutes(authed)
	h.Audit.RegisterRoutes(authed)

	return engine
}
