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

	"github.com/gin-gonic/gin"
	"github.com/hairui08/exambank-service/internal/config"
	"github.com/hairui08/exambank-service/internal/events"
	"github.com/hairui08/exambank-service/internal/handlers"
	"github.com/hairui08/exambank-service/internal/repositories/memory"
	"github.com/hairui08/exambank-service/internal/services"
	"github.com/hairui08/exambank-service/internal/session"
	"github.com/hairui08/exambank-service/internal/utils"
	"github.com/hairui08/exambank-service/internal/validator"
	"github.com/hairui08/exambank-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var appLogger utils.Logger
	if cfg.IsDevelopment() {
		appLogger = utils.NewDevelopmentLogger()
	} else {
		appLogger = utils.NewDefaultLogger()
	}
	slogger := appLogger.(*utils.SlogLogger).GetSlogLogger()

	validate := validator.New()
	repo := memory.NewRepository()

	store, err := newSessionStore(cfg)
	if err != nil {
		appLogger.Error("Failed to initialize session store", "error", err)
		os.Exit(1)
	}

	publisher := events.NewChannelEventPublisher(slogger)
	defer publisher.Close()

	svcs := services.NewServices(repo, slogger, validate)
	engine := session.NewEngine(store, publisher, repo.Question(), slogger)

	// Pick up a session a previous process left behind.
	if err := engine.Recover(context.Background()); err != nil {
		appLogger.Error("Failed to recover exam session", "error", err)
		os.Exit(1)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(appLogger))
	router.Use(utils.ContextLogger(appLogger))

	handlers.NewHandlerManager(svcs, engine, validate, appLogger).SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"session_backend", cfg.SessionBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Server stopped")
}

// newSessionStore picks the session backend. Redis keeps sessions across
// process restarts and hosts; memory is the development default.
func newSessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.SessionBackend != "redis" {
		return session.NewMemoryStore(), nil
	}

	client, err := pkg.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return session.NewRedisStore(client, cfg.SessionNamespace), nil
}
