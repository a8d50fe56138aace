package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pmhscreen/internal/app"
	"pmhscreen/internal/catalog"
	"pmhscreen/internal/config"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/service"
	"pmhscreen/internal/transport/rest"
	"pmhscreen/internal/transport/ws"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()

	if cfg.UsesDefaultSecret() {
		log.Warn("auth.jwt_secret not set, using development secret")
	}

	// A missing or malformed questionnaire is fatal
	questions, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded", "version", questions.Version(), "questions", len(questions.ListQuestions()))

	stores, err := app.OpenStores(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background())

	results, closeCache, err := app.OpenResultCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	// Initialize WebSocket hub
	wsHub := ws.NewHub(log)
	defer wsHub.Stop()

	// Initialize services
	authSvc := service.NewAuthService(stores.Users, cfg.Auth.JWTSecret.Value(), cfg.Auth.TokenTTL, log)
	analyticsSvc := service.NewAnalyticsService(stores.Screenings, metrics, log)
	screeningSvc := service.NewScreeningService(stores.Screenings, results, metrics, log)
	profileSvc := service.NewProfileService(stores.Users, stores.Screenings)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	analyticsSvc.SetBroadcaster(wsHub)
	screeningSvc.SetAnalyticsService(analyticsSvc)

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		ScreeningService: screeningSvc,
		ProfileService:   profileSvc,
		AnalyticsService: analyticsSvc,
		Catalog:          questions,
		WSHub:            wsHub,
		Metrics:          metrics,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSOrigins:      cfg.Server.CORSOrigins,
		Logger:           log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Server.HTTPPort, "store", cfg.Store.Driver, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
