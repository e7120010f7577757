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
	"golang.org/x/sync/errgroup"

	server "github.com/wlw20016/yisu-hotel/internal/adapters/http_server"
	"github.com/wlw20016/yisu-hotel/internal/adapters/observability"
	redisad "github.com/wlw20016/yisu-hotel/internal/adapters/redis"
	"github.com/wlw20016/yisu-hotel/internal/adapters/token"
	"github.com/wlw20016/yisu-hotel/internal/app"
	"github.com/wlw20016/yisu-hotel/internal/migrations"
	"github.com/wlw20016/yisu-hotel/internal/shared"
	mysqlrepo "github.com/wlw20016/yisu-hotel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	if cfg.MigrationsDir != "" {
		if err := migrations.Run(db, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		log.Info().Str("dir", cfg.MigrationsDir).Msg("migrations applied")
	}

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	tokens := token.NewMaker(cfg.JWTSecret, cfg.TokenTTL)
	listings := app.NewListingService(repo, cache)
	queries := app.NewQueryService(repo, cache, cfg.CacheTTL)
	auth := app.NewAuthService(repo)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Listings:  listings,
		Queries:   queries,
		Auth:      auth,
		Tokens:    tokens,
		PublicRPS: cfg.PublicRPS,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
