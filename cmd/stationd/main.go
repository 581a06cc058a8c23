// Command stationd serves the car service station REST API.
//
// @title                       Car Service Station API
// @version                     1.0
// @description                 Catalog, bookings and payments of a car service station.
// @host                        localhost:8080
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/api"
	"github.com/carservice/station/internal/infrastructure/config"
	mongorepo "github.com/carservice/station/internal/infrastructure/db/mongo"
	redisstore "github.com/carservice/station/internal/infrastructure/db/redis"
	"github.com/carservice/station/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "stationd"})
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "stationd",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("stationd stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	svc := api.Wire(db, rdb, cfg, log)

	if cfg.Admin.Username != "" {
		created, err := svc.Auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		if created {
			log.Info().Str("username", cfg.Admin.Username).Msg("admin account created")
		}
	}

	e := api.NewRouter(svc, api.Options{JWTSecret: cfg.JWTSecret}, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("stationd listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
