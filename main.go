package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auction "gem-auction/internal/auctionService"
	"gem-auction/internal/auth"
	"gem-auction/internal/config"
	"gem-auction/internal/realtime"
	"gem-auction/internal/repository"
	"gem-auction/internal/seed"
	"gem-auction/internal/server"
	"gem-auction/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if !utils.SetLevel(cfg.LogLevel) {
		utils.Warn("unknown LOG_LEVEL, keeping info", map[string]any{"level": cfg.LogLevel})
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openStore(ctx, cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"store": cfg.Store, "error": err.Error()})
	}
	defer closeRepo()

	if cfg.SeedData {
		if err := seed.Load(ctx, repo, time.Now().UTC()); err != nil {
			utils.Fatal("failed to seed store", map[string]any{"error": err.Error()})
		}
	}

	hub := realtime.NewHub(cfg.EventBuffer)
	auctionSvc := auction.NewAuctionService(repo, hub)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	router := server.SetupRouter(auctionSvc, tokens, cfg.CORSOrigins)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Info("starting auction server", map[string]any{"addr": cfg.Addr(), "store": cfg.Store, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server stopped", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	// closing the hub ends open event streams so Shutdown does not wait on them
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("graceful shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openStore returns the repository selected by STORE and a func releasing it
func openStore(ctx context.Context, cfg config.Config) (repository.AuctionDB, func(), error) {
	if cfg.Store == config.StoreMemory {
		return repository.NewMemoryRepo(), func() {}, nil
	}

	driver, err := repository.DriverFor(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	repo, err := repository.OpenSQL(ctx, driver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			utils.Warn("failed to close store", map[string]any{"error": err.Error()})
		}
	}, nil
}
