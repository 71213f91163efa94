package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/teoyou881/hc-fullstack-app/internal/db"
	"github.com/teoyou881/hc-fullstack-app/internal/handlers"
	"github.com/teoyou881/hc-fullstack-app/internal/logger"
	"github.com/teoyou881/hc-fullstack-app/internal/repository/postgres"
	"github.com/teoyou881/hc-fullstack-app/internal/service/auth"
	"github.com/teoyou881/hc-fullstack-app/internal/service/auth/tokencodec"
	"github.com/teoyou881/hc-fullstack-app/internal/service/product"
	"github.com/teoyou881/hc-fullstack-app/internal/service/user"
)

// Expired refresh records are garbage, sweep them once in a while
const pruneInterval = time.Hour

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger      logger.Logger
	authService *auth.AuthService
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	codec, err := tokencodec.New(tokencodec.Config{SecretKey: c.SecretKey})
	if err != nil {
		return nil, fmt.Errorf("error while creating token codec. Err: %w", err)
	}

	userService, err := user.NewService(nil, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating user service. Err: %w", err)
	}

	productService, err := product.NewService(storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating product service. Err: %w", err)
	}

	authService, err := auth.NewService(
		auth.Config{
			AccessTokenTTL:  c.AccessTokenTTL,
			RefreshTokenTTL: c.RefreshTokenTTL,
		},
		codec,
		userService,
		storage,
	)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	mux := handlers.NewRouter(authService, userService, productService, log)

	return &ServerApp{
		ListenAddr:  c.ListenAddr,
		Handler:     mux,
		logger:      log,
		authService: authService,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go s.pruneExpiredTokens(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}

func (s *ServerApp) pruneExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.authService.PruneExpired(ctx)
			if err != nil {
				s.logger.Error("pruning expired refresh tokens failed", "error", err.Error())
				continue
			}
			if n > 0 {
				s.logger.Info("pruned expired refresh tokens", "count", n)
			}
		}
	}
}
