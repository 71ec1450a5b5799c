package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docsite"
)

// Ensure LoggingDetector implements docsite.GeneratorDetector.
var _ docsite.GeneratorDetector = (*LoggingDetector)(nil)

// LoggingDetector wraps a GeneratorDetector with logging.
type LoggingDetector struct {
	next   docsite.GeneratorDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next docsite.GeneratorDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector and logs the result.
func (d *LoggingDetector) Detect(html string) docsite.Generator {
	begin := time.Now()
	g := d.next.Detect(html)
	name := string(g)
	if g == docsite.GeneratorUnknown {
		name = "(unknown)"
	}
	d.logger.Info("generator detection",
		"generator", name,
		"duration", time.Since(begin),
	)
	return g
}
