package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"huefolio/configs"
	"huefolio/internal/adapter"
	"huefolio/internal/database"
	"huefolio/internal/delivery/tradeweb"
	"huefolio/internal/infra"
	"huefolio/internal/repository"
	"huefolio/internal/session"
	"huefolio/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using environment variables")
	}

	cfg := configs.Load()

	if cfg.Server.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// The quote collaborator is useless without credentials; refuse to start.
	if cfg.Quote.APIKey == "" {
		log.Fatal().Msg("QUOTE_API_KEY not set")
	}

	ctx := context.Background()

	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	templates, err := tradeweb.LoadTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	userRepo := repository.NewUserRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	sessions := session.NewStore(rdb)
	quotes := adapter.NewQuoteClient(cfg.Quote.URL, cfg.Quote.APIKey)
	trading := usecase.NewTradingService(userRepo, portfolioRepo, quotes)

	e := echo.New()
	e.HideBanner = true

	handler := tradeweb.NewHandler(templates, trading, userRepo, sessions)
	tradeweb.SetupRoutes(e, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("tradesim starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}
