// Package server provides the public entry point for initializing the
// TokenGate gateway.
//
// This package lives in pkg/ (not internal/) so that host applications can
// embed the gateway and compose their own routes around its handler.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/internal/api"
	"github.com/tokengate/tokengate/internal/api/handlers"
	apimw "github.com/tokengate/tokengate/internal/api/middleware"
	"github.com/tokengate/tokengate/internal/auth"
	"github.com/tokengate/tokengate/internal/config"
	"github.com/tokengate/tokengate/internal/oidc"
	"github.com/tokengate/tokengate/internal/settings"
	"github.com/tokengate/tokengate/internal/store"
	"github.com/tokengate/tokengate/internal/telemetry"
)

// Server holds the initialized TokenGate gateway.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Chain is the auth provider chain. Exposed so embedding hosts can
	// register their own providers ahead of or behind the defaults.
	Chain *auth.ProviderChain

	// Users is the user store backing the gateway.
	Users store.UserStore

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes the gateway from environment configuration.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, config.Load())
}

// NewWithConfig initializes the gateway with an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	users, err := newUserStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init user store: %w", err)
	}

	source := newSettingsSource(cfg)

	// Chain order is the fall-through contract: the host's own mechanism
	// first, bearer verification only for requests it declined.
	chain := auth.NewProviderChain()
	chain.RegisterProvider(auth.NewAPIKeyProvider(users))
	chain.RegisterProvider(oidc.NewProvider(source, users))

	h := handlers.New(users)
	router := api.NewRouter(cfg, h, apimw.NewAuthMiddleware(chain))

	return &Server{
		Handler:      router,
		Chain:        chain,
		Users:        users,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}

func newUserStore(ctx context.Context, cfg *config.Config) (store.UserStore, error) {
	if cfg.Database.URL != "" {
		return store.NewPostgresStore(ctx, cfg.Database.URL)
	}
	log.Info().Msg("In-memory user store initialized")
	return store.NewMemoryStore(), nil
}

func newSettingsSource(cfg *config.Config) settings.Source {
	if cfg.Settings.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Settings.RedisAddr,
			Password: cfg.Settings.RedisPassword,
		})
		log.Info().Str("key", cfg.Settings.RedisKey).Msg("Redis settings source initialized")
		return settings.NewRedisSource(client, cfg.Settings.RedisKey)
	}
	return settings.NewEnvSource()
}
