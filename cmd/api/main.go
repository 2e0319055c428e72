package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cognitopkg "github.com/jaekwang-park/todo-items/internal/cognito"
	"github.com/jaekwang-park/todo-items/internal/config"
	todohttp "github.com/jaekwang-park/todo-items/internal/http"
	"github.com/jaekwang-park/todo-items/internal/logging"
	"github.com/jaekwang-park/todo-items/internal/middleware"
	"github.com/jaekwang-park/todo-items/internal/repository"
	"github.com/jaekwang-park/todo-items/internal/service"
	"github.com/jaekwang-park/todo-items/internal/store"
)

const accountsCollection = "accounts"

// accountResolverAdapter adapts the account service to the middleware.AccountResolver interface.
type accountResolverAdapter struct {
	svc *service.AccountService
}

func (a *accountResolverAdapter) ResolveAccountID(ctx context.Context, cognitoSub string) (string, error) {
	id, err := a.svc.ResolveAccountID(ctx, cognitoSub)
	if errors.Is(err, service.ErrUnauthorized) {
		return "", middleware.ErrAccountNotFound
	}
	return id, err
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.ParseLogLevel())
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_mode", cfg.AuthMode,
		"store_backend", cfg.Store.Backend,
		"base_path", cfg.BasePath,
		"log_level", cfg.LogLevel,
	)

	// Document store
	db, err := store.Open(ctx, store.Options{
		Backend:       cfg.Store.Backend,
		MongoURI:      cfg.Store.MongoURI,
		MongoDatabase: cfg.Store.MongoDatabase,
		PostgresDSN:   cfg.DB.DSN(),
		SQLitePath:    cfg.Store.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()
	logger.Info("store connected", "backend", cfg.Store.Backend)

	for _, idx := range []struct{ collection, field string }{
		{cfg.Store.Collection, repository.FieldTitle},
		{accountsCollection, repository.FieldEmail},
		{accountsCollection, repository.FieldSubject},
	} {
		if err := db.EnsureUnique(ctx, idx.collection, idx.field); err != nil {
			return fmt.Errorf("failed to ensure unique %s.%s: %w", idx.collection, idx.field, err)
		}
	}

	// Repositories
	todoRepo := repository.NewTodoRepository(db.Collection(cfg.Store.Collection))
	accountRepo := repository.NewAccountRepository(db.Collection(accountsCollection))

	// Cognito client, optional unless AUTH_MODE=jwt
	var provider cognitopkg.Client
	if cfg.Cognito.AppClientID != "" {
		cognitoClient, err := cognitopkg.NewAWSClient(
			ctx,
			cfg.Cognito.Region,
			cfg.Cognito.AppClientID,
			cfg.Cognito.AppClientSecret,
		)
		if err != nil {
			return err
		}
		provider = cognitoClient
		logger.Info("cognito client initialized", "region", cfg.Cognito.Region)
	} else {
		logger.Warn("cognito client not initialized: COGNITO_APP_CLIENT_ID not set")
	}

	// Services
	todoSvc := service.NewTodoService(todoRepo)
	accountSvc := service.NewAccountService(provider, accountRepo)

	deps := todohttp.Deps{
		BasePath: cfg.BasePath,
		Todos:    todoSvc,
		Accounts: accountSvc,
		Store:    db,
	}

	// Auth middleware
	authCfg := middleware.AuthConfig{
		Mode:        middleware.AuthMode(cfg.AuthMode),
		PublicPaths: deps.PublicPaths(),
	}
	if authCfg.Mode == middleware.AuthJWT {
		jwksURL := middleware.CognitoJWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.JWKSClient = middleware.NewJWKSClient(jwksURL)
		authCfg.Issuer = middleware.CognitoIssuer(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.AppClientID = cfg.Cognito.AppClientID
		authCfg.AccountResolver = &accountResolverAdapter{svc: accountSvc}
	}
	auth, err := middleware.NewAuth(authCfg)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// HTTP Server
	srv := todohttp.NewServer(cfg.ServerPort, logger, deps, auth)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
