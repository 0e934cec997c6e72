// Command server runs the service tracker API.
//
// @title                       Service Tracker API
// @version                     1.0
// @description                 Tracks legal documents through service: attorneys register documents and instruct sheriffs, sheriffs report progress, admins manage accounts.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/wilsy/service-tracker/docs"
	"github.com/wilsy/service-tracker/internal/api"
	"github.com/wilsy/service-tracker/internal/api/metrics"
	"github.com/wilsy/service-tracker/internal/core/service"
	mongodb "github.com/wilsy/service-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/wilsy/service-tracker/internal/infrastructure/db/redis"
	"github.com/wilsy/service-tracker/internal/infrastructure/http/handlers"
	"github.com/wilsy/service-tracker/internal/infrastructure/queue"
	"github.com/wilsy/service-tracker/internal/infrastructure/storage"
	"github.com/wilsy/service-tracker/internal/pkg/config"
	"github.com/wilsy/service-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	clients := mongodb.NewClientRepository(db)
	deputies := mongodb.NewDeputyRepository(db)
	documents := mongodb.NewDocumentRepository(db)
	instructions := mongodb.NewInstructionRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, clients, deputies, documents, instructions); err != nil {
		return err
	}

	files, err := storage.New(storage.Config{
		Type:         storage.Type(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		AWSAccessKey: cfg.Storage.AWSAccessKey,
		AWSSecretKey: cfg.Storage.AWSSecretKey,
	})
	if err != nil {
		return err
	}

	// Deputy.assignedCases is kept in sync in the background.
	assignments := service.NewAssignmentService(documents, deputies, deputies, logger.Component("assignments"))
	dispatcher := queue.NewDispatcher(cfg.AssignmentWorkers, assignments, metrics.AssignmentObserver{}, logger.Component("assignment-dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.Auth.TokenTTL)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)

	e := api.NewRouter(api.Services{
		Tokens:       tokens,
		Auth:         service.NewAuthService(users, tokens, limiter, service.AuthOptions{OpenRoleRegistration: cfg.Auth.OpenRoleRegistration}, logger.Component("auth")),
		Users:        service.NewUserService(users, logger.Component("users")),
		Documents:    service.NewDocumentService(documents, clients, deputies, files, dispatcher, logger.Component("documents")),
		Instructions: service.NewInstructionService(instructions, documents, users, logger.Component("instructions")),
		Clients:      service.NewClientService(clients, logger.Component("clients")),
		Deputies:     service.NewDeputyService(deputies, logger.Component("deputies")),
		Assignments:  assignments,
		Checks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
	}, logger.Component("http"))

	if !cfg.Auth.OpenRoleRegistration {
		log.Info().Msg("admin self-registration disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
