package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "plaza_booking/internal/adapters/http_server"
	"plaza_booking/internal/adapters/observability"
	redisad "plaza_booking/internal/adapters/redis"
	"plaza_booking/internal/app"
	"plaza_booking/internal/domain"
	"plaza_booking/internal/shared"
	mysqlrepo "plaza_booking/internal/storage/mysql"
	sqliterepo "plaza_booking/internal/storage/sqlite"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("store init failed")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	b := app.NewBookingService(store, cache)
	q := app.NewQueryService(store, cache, cfg.CacheTTL)

	srv := server.New(cfg.RateRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{B: b, Q: q})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := cache.Close(); err != nil {
		log.Error().Err(err).Msg("cache close failed")
	}
	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("store close failed")
	}
}

func openStore(cfg shared.Config) (domain.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return sqliterepo.Open(cfg.SQLitePath)
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
		return mysqlrepo.New(db), nil
	}
}
