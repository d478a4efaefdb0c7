package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gamarriando/user-service/internal/config"
	"github.com/gamarriando/user-service/internal/domain"
	"github.com/gamarriando/user-service/internal/handler"
	"github.com/gamarriando/user-service/internal/repository"
	"github.com/gamarriando/user-service/internal/service"
	"github.com/gamarriando/user-service/internal/utils"
	"github.com/gamarriando/user-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra       Infrastructure
	config      *config.Config
	router      *gin.Engine
	server      *http.Server
	maintenance service.MaintenanceService
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authOpts := service.AuthOptions{
		BCryptCost:              cfg.Security.BCryptCost,
		PasswordMinLength:       cfg.Security.PasswordMinLength,
		ResetTokenExpiry:        cfg.Tokens.ResetTokenExpiry.Duration,
		VerificationTokenExpiry: cfg.Tokens.VerificationTokenExpiry.Duration,
		Debug:                   cfg.Debug,
	}

	roleService := service.NewRoleService(repos, infra.Logger())
	authService := service.NewAuthService(repos, roleService, jwtManager, infra.Logger(), authOpts)
	userService := service.NewUserService(repos, infra.Logger(), authOpts)
	sessionService := service.NewSessionService(repos, infra.Logger())
	maintenanceService := service.NewMaintenanceService(repos, infra.Logger())

	responder := handler.NewErrorResponder(infra.Logger(), cfg.Debug)
	authHandler := handler.NewAuthHandler(authService, responder)
	userHandler := handler.NewUserHandler(userService, responder)
	roleHandler := handler.NewRoleHandler(roleService, responder)
	sessionHandler := handler.NewSessionHandler(sessionService, responder)

	router := gin.Default()
	router.Use(otelgin.Middleware("user-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, jwtManager, rateLimiter, healthChecker, infra.MetricsHandler(),
		authHandler, userHandler, roleHandler, sessionHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:       infra,
		config:      cfg,
		router:      router,
		server:      srv,
		maintenance: maintenanceService,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	jwtManager *utils.JWTManager,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	sessionHandler *handler.SessionHandler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	rateLimit := handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
	)
	authenticated := handler.AuthMiddleware(jwtManager)
	adminOnly := handler.RequireRoles(domain.RoleAdmin)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", rateLimit, authHandler.Register)
			auth.POST("/login", rateLimit, authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authenticated, authHandler.Logout)
			auth.POST("/forgot-password", rateLimit, authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/me", authenticated, userHandler.Me)
		}

		users := api.Group("/users")
		{
			users.GET("", authenticated, adminOnly, userHandler.List)
			users.GET("/:id", authenticated, userHandler.Get)
			users.PUT("/:id", authenticated, userHandler.Update)
			users.DELETE("/:id", authenticated, adminOnly, userHandler.Deactivate)
			users.POST("/:id/change-password", authenticated, userHandler.ChangePassword)
			users.POST("/:id/verify-email", authHandler.VerifyEmail)

			users.GET("/:id/roles", authenticated, roleHandler.List)
			users.POST("/:id/roles", authenticated, adminOnly, roleHandler.Grant)
			users.DELETE("/:id/roles/:grant_id", authenticated, adminOnly, roleHandler.Revoke)

			users.GET("/:id/sessions", authenticated, sessionHandler.List)
			users.DELETE("/:id/sessions", authenticated, sessionHandler.RevokeAll)
		}

		api.GET("/roles", authenticated, roleHandler.Catalog)
		api.DELETE("/sessions/:id", authenticated, sessionHandler.Revoke)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	go a.runSweeper(ctx)

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

// runSweeper periodically purges expired sessions and single-use tokens
func (a *App) runSweeper(ctx context.Context) {
	interval := a.config.Maintenance.SweepInterval.Duration
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := a.maintenance.SweepExpired(ctx); err != nil {
				a.infra.Logger().Error("Sweep failed", zap.Error(err))
			}
		}
	}
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
