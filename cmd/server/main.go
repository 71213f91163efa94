package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// run wires config and the server app; split from main so tests can
// drive it with their own env and args
func run(ctx context.Context, getenv func(string) string, getwd func() (string, error), args []string) error {
	cfg := NewConfig()
	if err := cfg.LoadDotEnv(getwd); err != nil {
		return err
	}
	cfg.LoadEnv(getenv)
	if err := cfg.ParseFlags(args); err != nil {
		return err
	}

	srv, err := NewServerApp(ctx, cfg)
	if err != nil {
		return err
	}

	if err := srv.Run(ctx); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		slog.Warn("Interrupt signal")
		cancel()
	}()

	if err := run(ctx, os.Getenv, os.Getwd, os.Args[1:]); err != nil {
		slog.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}
