package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/casewatch/casewatch/internal/admin"
	"github.com/casewatch/casewatch/internal/app"
	"github.com/casewatch/casewatch/internal/auth"
	"github.com/casewatch/casewatch/internal/authz"
	"github.com/casewatch/casewatch/internal/cases"
	"github.com/casewatch/casewatch/internal/observability"
	"github.com/casewatch/casewatch/internal/platform/cache"
	"github.com/casewatch/casewatch/internal/platform/db"
	"github.com/casewatch/casewatch/internal/shared"
	"github.com/casewatch/casewatch/internal/users"
	"github.com/casewatch/casewatch/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "casewatch_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	decisionMetrics := authz.NewDecisionMetrics(metrics.Registerer())

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	auditLogger := shared.NewAuditLogger(dbpool)

	authzStore := authz.NewStore(dbpool)
	authzService := authz.NewService(authzStore)
	authzHandler := authz.NewHandler(logger, authzService, decisionMetrics)
	authzAdminService := authz.NewAdminService(authzStore, auditLogger, logger)
	authzAdminHandler := authz.NewAdminHandler(logger, authzAdminService)

	edge := authz.Middleware{Service: authzService, Logger: logger, Metrics: decisionMetrics}
	guard := authz.Guard{Service: authzService, Logger: logger, Metrics: decisionMetrics}
	require := authz.Require{Service: authzService, Logger: logger}

	casesRepo := cases.NewRepository(dbpool)
	casesService := cases.NewService(casesRepo)
	casesHandler := cases.NewHandler(logger, casesService, authzService, templates, csrfManager, require)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	adminHandler := admin.NewHandler(logger, authzService, authzAdminService, usersService, auditLogger, templates, csrfManager)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,

		AuthHandler:       authHandler,
		AuthzService:      authzService,
		AuthzHandler:      authzHandler,
		AuthzAdminHandler: authzAdminHandler,
		EdgeMiddleware:    edge,
		LayoutGuard:       guard,
		CasesHandler:      casesHandler,
		AdminHandler:      adminHandler,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
