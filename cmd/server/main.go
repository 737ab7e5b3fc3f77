package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	handler "github.com/quorumpoll/quorum/internal/adapters/handler/http"
	googleid "github.com/quorumpoll/quorum/internal/adapters/identity/google"
	"github.com/quorumpoll/quorum/internal/adapters/identity/jwtauth"
	"github.com/quorumpoll/quorum/internal/adapters/repository/postgres"
	"github.com/quorumpoll/quorum/internal/config"
	"github.com/quorumpoll/quorum/internal/core/authz"
	"github.com/quorumpoll/quorum/internal/core/domain"
	"github.com/quorumpoll/quorum/internal/core/ports"
	"github.com/quorumpoll/quorum/internal/core/services"
	"github.com/quorumpoll/quorum/internal/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	var identity ports.IdentityProvider
	switch cfg.AuthMode {
	case config.AuthModeGoogle:
		identity = googleid.NewVerifier(cfg.GoogleClientID, cfg.AdminEmails)
	default:
		identity = jwtauth.NewVerifier([]byte(cfg.JWTSecret), cfg.AdminEmails)
	}

	categories := domain.NewCategoryRegistry(domain.DefaultCategories)
	engine := authz.NewEngine(authz.DefaultMatrix())
	store := postgres.NewPollStore(db)
	pollService := services.NewPollService(store, engine, categories, cfg.StoreTimeout)

	collector := metrics.NewCollector()
	rateLimiter := handler.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	pollHandler := handler.NewPollHandler(pollService, categories, collector)
	userHandler := handler.NewUserHandler()
	router := handler.NewHandler(pollHandler, userHandler, identity, collector, rateLimiter, cfg.AllowedOrigins)

	server := &stdhttp.Server{Addr: cfg.ServerAddr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
