package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/storefront/internal/config"
	"github.com/you/storefront/internal/infrastructure/logging"
)

const shutdownTimeout = 10 * time.Second

func Run(cfg *config.Config) error {
	logger := logging.New(logging.Config{Mode: cfg.Mode, Level: cfg.LogLevel})
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c := NewContainer(cfg, logger)
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close connections")
		}
	}()

	router, err := c.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("mode", cfg.Mode).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
