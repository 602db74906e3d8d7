package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/hafizkhan902/portfolio-backend/config"
	"github.com/hafizkhan902/portfolio-backend/internal/bootstrap"
	"github.com/hafizkhan902/portfolio-backend/internal/github"
	"github.com/hafizkhan902/portfolio-backend/internal/mailer"
	"github.com/hafizkhan902/portfolio-backend/internal/storage/postgres"
)

const githubCacheTTL = 30 * time.Minute

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[fatal] config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("[fatal] database: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("[fatal] schema: %v", err)
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Printf("[warn] redis unavailable, rate limiting disabled: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
		log.Fatalf("[fatal] upload dir: %v", err)
	}

	ghCache := gocache.New(githubCacheTTL, 10*time.Minute)
	gh := github.NewClient(cfg.GitHub.Token, cfg.GitHub.Username, ghCache, githubCacheTTL)
	mail := mailer.NewSMTP(cfg.SMTP)

	router := bootstrap.BuildRouter(cfg, pool, rdb, mail, gh)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[info] listening on :%s (%s)", cfg.Server.Port, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[fatal] server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[info] shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[error] shutdown: %v", err)
	}
}
