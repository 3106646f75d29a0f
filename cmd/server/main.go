package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/event-checkin/internal/config"
	"github.com/iliyamo/event-checkin/internal/database"
	"github.com/iliyamo/event-checkin/internal/handler"
	"github.com/iliyamo/event-checkin/internal/logging"
	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/queue"
	"github.com/iliyamo/event-checkin/internal/repository"
	"github.com/iliyamo/event-checkin/internal/router"
	"github.com/iliyamo/event-checkin/internal/service"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.Fatal().Err(err).Msg("read .env")
	}
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	if err != nil {
		logging.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		logging.Fatal().Err(err).Msg("migrate database")
	}

	rdb, err := config.NewRedisClient(cfg.Redis)
	if err != nil {
		logging.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable; rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	if cfg.BootstrapAdminEmail != "" {
		created, err := service.EnsureUser(ctx, users, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword,
			[]string{model.RoleAdmin, model.RoleStaff}, cfg.BcryptCost)
		if err != nil {
			logging.Fatal().Err(err).Msg("bootstrap admin")
		}
		if created {
			logging.Info().Str("email", cfg.BootstrapAdminEmail).Msg("bootstrap admin created")
		}
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.AuthExpiration)
	checkIns := service.NewCheckInService(repository.NewCheckInRepo(db))
	publisher := service.NewEventPublisher(cfg.RabbitMQURL)

	e := router.New(router.Deps{
		Auth:      handler.NewAuthHandler(users, tokens),
		Users:     handler.NewUserHandler(users, cfg.BcryptCost),
		CheckIns:  handler.NewCheckInHandler(checkIns, publisher),
		Tokens:    tokens,
		RateLimit: cfg.RateLimit,
		Redis:     rdb,
	})

	if cfg.ConsumerEnabled {
		consumer := &queue.Consumer{URL: cfg.RabbitMQURL, LogDir: cfg.EventLogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logging.Error().Err(err).Msg("check-in consumer stopped")
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
}
