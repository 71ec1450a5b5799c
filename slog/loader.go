package slog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/docsite"
)

// Ensure LoggingLoader implements docsite.ModuleLoader.
var _ docsite.ModuleLoader = (*LoggingLoader)(nil)

// LoggingLoader wraps a ModuleLoader with logging.
type LoggingLoader struct {
	next   docsite.ModuleLoader
	logger *slog.Logger
}

// NewLoggingLoader creates a new LoggingLoader.
func NewLoggingLoader(next docsite.ModuleLoader, logger *slog.Logger) *LoggingLoader {
	return &LoggingLoader{next: next, logger: logger}
}

// Configure delegates to the wrapped loader and logs the declared names.
func (l *LoggingLoader) Configure(cfg docsite.LoaderConfig) (err error) {
	defer func() {
		l.logger.Info("loader configure",
			"modules", strings.Join(cfg.Names(), ","),
			"err", err,
		)
	}()
	return l.next.Configure(cfg)
}

// Require delegates to the wrapped loader and logs the operation. The
// duration covers loading and the completion callback.
func (l *LoggingLoader) Require(ctx context.Context, names []string, ready docsite.ReadyFunc) (err error) {
	defer func(begin time.Time) {
		l.logger.Info("loader require",
			"modules", strings.Join(names, ","),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Require(ctx, names, ready)
}
