package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fxtrendback/internal/config"
	"fxtrendback/internal/engine"
	"fxtrendback/internal/httpapi"
	"fxtrendback/internal/portfolio"
	"fxtrendback/internal/runstore"
)

func main() {
	cfg, err := config.LoadServiceConfig()
	if err != nil {
		log.Fatal(err)
	}
	strategyCfg := config.DefaultStrategyConfig()
	if err := strategyCfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	store := runstore.NewStore(pool)

	eng := engine.NewService(cfg.CandleDataDir, strategyCfg, portfolio.DefaultConfig()).WithStore(store)
	tokens := httpapi.NewTokenService(cfg.JWTIssuer, cfg.JWTSecret, cfg.JWTTTL)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Engine:          eng,
		Runner:          eng,
		Tokens:          tokens,
		WebSocketOrigin: cfg.WebSocketOrigin,
		SweepStore:      store,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	log.Printf("backtestd listening on %s", cfg.HTTPAddr)
	log.Printf("mode: %s", cfg.Mode)
	log.Printf("candle data dir: %s", cfg.CandleDataDir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
