package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/plantaohub/oncall-api/internal/config"
	"github.com/plantaohub/oncall-api/internal/email"
	"github.com/plantaohub/oncall-api/internal/handler"
	"github.com/plantaohub/oncall-api/internal/middleware"
	"github.com/plantaohub/oncall-api/internal/repository/postgres"
	"github.com/plantaohub/oncall-api/internal/router"
	"github.com/plantaohub/oncall-api/internal/service/acceptance"
	auditsvc "github.com/plantaohub/oncall-api/internal/service/audit"
	authsvc "github.com/plantaohub/oncall-api/internal/service/auth"
	"github.com/plantaohub/oncall-api/internal/service/clinician"
	"github.com/plantaohub/oncall-api/internal/service/history"
	"github.com/plantaohub/oncall-api/internal/service/hospital"
	"github.com/plantaohub/oncall-api/internal/service/shift"
	"github.com/plantaohub/oncall-api/internal/service/user"
	"github.com/plantaohub/oncall-api/pkg/auth"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/metrics"
	"github.com/plantaohub/oncall-api/pkg/security"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.Load(os.Getenv("ONCALL_CONFIG_PATH"))
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.New("oncall")

	hospitalRepo := postgres.NewHospitalRepository(db)
	userRepo := postgres.NewUserRepository(db)
	clinicianRepo := postgres.NewClinicianRepository(db)
	shiftRepo := postgres.NewShiftRepository(db)
	acceptanceRepo := postgres.NewAcceptanceRepository(db)
	managerHistoryRepo := postgres.NewManagerHistoryRepository(db)
	clinicianHistoryRepo := postgres.NewClinicianHistoryRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	recorder := auditsvc.NewService(auditRepo, log, m, cfg.Audit.QueueSize)
	defer recorder.Close()

	hasher := security.NewBcryptHasher(0)
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	var notifier email.Notifier
	if cfg.Email.Enabled {
		notifier = email.NewService(&email.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		}, log)
	}

	hospitalSvc := hospital.NewService(hospitalRepo, recorder, log)
	userSvc := user.NewService(userRepo, hospitalRepo, hasher, recorder, log)
	clinicianSvc := clinician.NewService(clinicianRepo, hasher, recorder, log)
	shiftSvc := shift.NewService(shiftRepo, hospitalRepo, acceptanceRepo, outboxRepo, recorder, log)
	acceptanceSvc := acceptance.NewService(acceptanceRepo, shiftRepo, clinicianRepo, outboxRepo, recorder, notifier, log)
	historySvc := history.NewService(managerHistoryRepo, clinicianHistoryRepo, acceptanceRepo, shiftRepo, clinicianRepo, recorder, log)
	authSvc := authsvc.NewService(userRepo, clinicianRepo, hasher, tokens, recorder, log, cfg.Auth.TokenTTL)

	if cfg.Bootstrap.AdminEmail != "" && cfg.Bootstrap.AdminPassword != "" {
		if err := userSvc.EnsureAdmin(context.Background(), cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			log.Fatal(err, "failed to ensure bootstrap admin")
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	engine := router.New(&router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Hospital:   handler.NewHospitalHandler(hospitalSvc),
		User:       handler.NewUserHandler(userSvc),
		Clinician:  handler.NewClinicianHandler(clinicianSvc),
		Shift:      handler.NewShiftHandler(shiftSvc),
		Acceptance: handler.NewAcceptanceHandler(acceptanceSvc),
		History:    handler.NewHistoryHandler(historySvc),
		Audit:      handler.NewAuditHandler(recorder),
		Health:     handler.NewHealthHandler(db),
	}, &router.Options{
		Verifier:  authSvc,
		Logger:    log,
		RateLimit: limiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
