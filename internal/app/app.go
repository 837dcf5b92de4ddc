package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/born-ml/gradgraph/internal/ctxlog"
)

// ErrGradientMismatch is returned by Run when the gradient check fails.
var ErrGradientMismatch = errors.New("analytic and numeric gradients disagree")

// App encapsulates the application's configuration and output streams.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp creates an App that prints results to outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
}

// Run executes the configured pipeline once.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return a.run(ctx)
}
