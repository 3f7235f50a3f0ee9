package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"tutorialapi/internal/config"
	handlers "tutorialapi/internal/http/handler"
	"tutorialapi/internal/http/middleware"
	"tutorialapi/internal/logger"
	"tutorialapi/internal/otel"
	"tutorialapi/internal/repository/memory"
	"tutorialapi/internal/service"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	loc, err := time.LoadLocation(cfg.Log.Timezone)
	if err != nil {
		loc = time.UTC
	}
	logger.SetLocation(loc)
	log := logger.New(os.Stdout, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Tracing, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init tracing")
	}

	store := memory.NewSeeded()
	svc := handlers.Services{
		Catalog: service.NewCatalogService(store),
		Users:   service.NewUserService(store, service.FakeHasher),
	}

	appCfg := handlers.Config(handlers.NewErrorRegistry())
	appCfg.BodyLimit = cfg.HTTP.BodyLimit
	appCfg.ReadTimeout = time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second
	appCfg.WriteTimeout = time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second
	appCfg.DisableStartupMessage = true
	app := fiber.New(appCfg)

	app.Use(recover.New())
	if cfg.Tracing.Enabled {
		app.Use(otelfiber.Middleware())
	}
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom, err := middleware.NewPrometheusMiddleware(reg)
		if err != nil {
			log.Fatal().Err(err).Msg("register metrics")
		}
		app.Use(prom.Handler())
		svc.Gatherer = reg
	}

	handlers.RegisterRoutes(app, svc)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("app_host", cfg.AppHost).Msg("server starting")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}
