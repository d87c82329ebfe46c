package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/01moynul/storefront/internal/accounts"
	"github.com/01moynul/storefront/internal/auth"
	"github.com/01moynul/storefront/internal/catalog"
	"github.com/01moynul/storefront/internal/checkout"
	"github.com/01moynul/storefront/internal/config"
	"github.com/01moynul/storefront/internal/database"
	"github.com/01moynul/storefront/internal/handlers"
	"github.com/01moynul/storefront/internal/routes"
	"github.com/01moynul/storefront/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cf, log, err := bootstrap()
	if err != nil {
		return err
	}
	if cf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. --- Main Database Connection ---
	db, dialect, err := database.OpenDB(cf, log)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. --- Session backend (cart & wishlist) ---
	cookies := session.CookieOptions{Secure: cf.CookieSecure}
	sessions, closeSessions, err := sessionProvider(ctx, cf, cookies, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	// 3. --- Services ---
	tokens, err := auth.NewTokenMaker(cf.JWTSecret)
	if err != nil {
		return err
	}

	app := &handlers.Handlers{
		Catalog:         catalog.NewRepository(db, dialect, log),
		Sessions:        sessions,
		Accounts:        accounts.NewService(accounts.NewStore(db, dialect), tokens, log),
		Checkout:        checkout.NewService(log),
		Tokens:          tokens,
		Log:             log,
		DefaultPageSize: cf.DefaultPageSize,
		MaxPageSize:     cf.MaxPageSize,
		Cookies:         cookies,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		CORSAllowedOrigin: cf.CORSAllowedOrigin,
		Log:               log,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cf.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("session_backend", cf.SessionBackend).Msg("Starting storefront API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sessionProvider picks where cart and wishlist documents live. The returned
// func releases the backend.
func sessionProvider(ctx context.Context, cf *config.Config, cookies session.CookieOptions, log zerolog.Logger) (session.Provider, func(), error) {
	switch cf.SessionBackend {
	case "redis":
		client, err := session.NewRedisClient(ctx, session.RedisOptions{
			Addr:     cf.RedisAddr,
			Password: cf.RedisPassword,
			DB:       cf.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cf.RedisAddr).Msg("redis session backend connected")
		return session.ServerProvider{Backend: session.NewRedisStore(client), Options: cookies}, func() { client.Close() }, nil
	case "memory":
		log.Warn().Msg("memory session backend: carts are lost on restart and not shared between instances")
		return session.ServerProvider{Backend: session.NewMemoryStore(), Options: cookies}, func() {}, nil
	default:
		return session.CookieProvider{Options: cookies, Log: log}, func() {}, nil
	}
}
