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
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xpertlabs/xpert-account-api/internal/config"
	"github.com/xpertlabs/xpert-account-api/internal/handler"
	"github.com/xpertlabs/xpert-account-api/internal/middleware"
	"github.com/xpertlabs/xpert-account-api/internal/repository"
	"github.com/xpertlabs/xpert-account-api/internal/usecase"
	"github.com/xpertlabs/xpert-account-api/shared/auth"
	"github.com/xpertlabs/xpert-account-api/shared/mailer"
	"github.com/xpertlabs/xpert-account-api/shared/validate"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.NewConfig(&logger)

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelIndex()

	userRepo := repository.NewUserMongoRepository(indexCtx, &logger, db)
	roleRepo := repository.NewRoleMongoRepository(indexCtx, &logger, db)
	categoryRepo := repository.NewCategoryMongoRepository(db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.JWTSecret)
	smtp := mailer.NewMailer(&logger)

	validator, err := validate.NewValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build request validator")
	}

	accountUsecase := usecase.NewAccountUsecase(userRepo, roleRepo, jwtAuth, smtp, &logger)
	passwordUsecase := usecase.NewPasswordUsecase(userRepo, jwtAuth, smtp, &logger)
	categoryUsecase := usecase.NewCategoryUsecase(categoryRepo)

	noAuthHandler := handler.NewNoAuthHandler(accountUsecase, passwordUsecase, validator, &logger)
	authHandler := handler.NewAuthHandler(accountUsecase, passwordUsecase, validator, &logger)
	categoryHandler := handler.NewCategoryHandler(categoryUsecase, validator, &logger)
	guard := middleware.Authenticate(jwtAuth, userRepo, &logger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewRouter(noAuthHandler, authHandler, categoryHandler, guard),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down HTTP server gracefully")
	}

	logger.Info().Msg("server stopped")
}
