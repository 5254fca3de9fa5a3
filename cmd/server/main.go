package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/bank-statement-extractor/internal/api"
	"github.com/insightdelivered/bank-statement-extractor/internal/config"
	"github.com/insightdelivered/bank-statement-extractor/internal/flags"
	"github.com/insightdelivered/bank-statement-extractor/internal/logger"
	"github.com/insightdelivered/bank-statement-extractor/internal/statement"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	addr := flag.String("addr", cfg.Server.Addr, "Listen address")
	flag.Parse()

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	svc := statement.New(flags.New(cfg.Flags), log,
		statement.WithAccountPages(cfg.Extraction.AccountPages))

	app := fiber.New(fiber.Config{
		AppName:               "bank-statement-extractor " + version,
		BodyLimit:             32 << 20,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		DisableStartupMessage: true,
	})
	api.NewHandler(svc, log, version).RegisterRoutes(app)

	go func() {
		log.Info().Str("addr", *addr).Msg("Starting API server")
		if err := app.Listen(*addr); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
