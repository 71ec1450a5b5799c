package mock

import (
	"context"

	"github.com/fwojciec/docsite"
)

var _ docsite.ModuleLoader = (*ModuleLoader)(nil)

// ModuleLoader is a mock implementation of docsite.ModuleLoader.
type ModuleLoader struct {
	ConfigureFn func(cfg docsite.LoaderConfig) error
	RequireFn   func(ctx context.Context, names []string, ready docsite.ReadyFunc) error
}

func (l *ModuleLoader) Configure(cfg docsite.LoaderConfig) error {
	return l.ConfigureFn(cfg)
}

func (l *ModuleLoader) Require(ctx context.Context, names []string, ready docsite.ReadyFunc) error {
	return l.RequireFn(ctx, names, ready)
}
