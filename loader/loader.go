// Package loader implements an asynchronous-module-loader style registry:
// symbolic names resolve to script locations, each script is fetched and
// bound at most once, and callers are handed the loaded modules once they
// are all available.
package loader

import (
	"context"
	"sync"

	"github.com/fwojciec/docsite"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Ensure Loader implements docsite.ModuleLoader at compile time.
var _ docsite.ModuleLoader = (*Loader)(nil)

// BindFunc turns a fetched script into the value it exports.
type BindFunc func(ctx context.Context, mod *docsite.Module) (any, error)

// Loader implements docsite.ModuleLoader on top of a docsite.Fetcher.
type Loader struct {
	fetcher docsite.Fetcher
	binders map[string]BindFunc

	mu     sync.Mutex
	config docsite.LoaderConfig
	loaded map[string]*docsite.Module

	group singleflight.Group
}

// Option configures a Loader.
type Option func(*Loader)

// WithBinder registers fn for modules whose shim exports the given name.
func WithBinder(exports string, fn BindFunc) Option {
	return func(l *Loader) {
		l.binders[exports] = fn
	}
}

// New creates a Loader that fetches scripts with fetcher.
func New(fetcher docsite.Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		binders: make(map[string]BindFunc),
		config: docsite.LoaderConfig{
			Paths: make(map[string]string),
			Shim:  make(map[string]docsite.Shim),
		},
		loaded: make(map[string]*docsite.Module),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure merges cfg into the loader. Names not yet loaded may be
// remapped freely; a loaded module keeps its location.
func (l *Loader) Configure(cfg docsite.LoaderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for name, loc := range cfg.Paths {
		if mod, ok := l.loaded[name]; ok && mod.Location != loc {
			return docsite.Errorf(docsite.ECONFLICT, "module %q already loaded from %s", name, mod.Location)
		}
	}
	for name, loc := range cfg.Paths {
		l.config.Paths[name] = loc
	}
	for name, shim := range cfg.Shim {
		l.config.Shim[name] = shim
	}
	return nil
}

// Loaded reports whether the named module has been fetched and bound.
func (l *Loader) Loaded(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.loaded[name]
	return ok
}

// Require loads every named module, concurrently, then calls ready with
// the modules in the order requested. Modules already loaded are reused.
// Concurrent requests for the same name share a single fetch. A failed
// load is not remembered, so a later Require fetches again.
func (l *Loader) Require(ctx context.Context, names []string, ready docsite.ReadyFunc) error {
	mods := make([]*docsite.Module, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			mod, err := l.load(gctx, name)
			if err != nil {
				return err
			}
			mods[i] = mod
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if ready == nil {
		return nil
	}
	return ready(ctx, mods...)
}

func (l *Loader) load(ctx context.Context, name string) (*docsite.Module, error) {
	l.mu.Lock()
	if mod, ok := l.loaded[name]; ok {
		l.mu.Unlock()
		return mod, nil
	}
	res, ok := l.config.Resource(name)
	l.mu.Unlock()
	if !ok {
		return nil, docsite.Errorf(docsite.ENOTFOUND, "module %q has no declared path", name)
	}

	// The shared fetch outlives any single caller, so one caller giving up
	// does not fail the others waiting on the same name.
	ch := l.group.DoChan(name, func() (any, error) {
		// Another caller may have finished loading while we waited.
		l.mu.Lock()
		if mod, ok := l.loaded[name]; ok {
			l.mu.Unlock()
			return mod, nil
		}
		l.mu.Unlock()

		mod, err := l.fetch(context.WithoutCancel(ctx), res)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.loaded[name] = mod
		l.mu.Unlock()
		return mod, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*docsite.Module), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loader) fetch(ctx context.Context, res docsite.Resource) (*docsite.Module, error) {
	src, err := l.fetcher.Fetch(ctx, res.Location)
	if err != nil {
		return nil, err
	}

	mod := &docsite.Module{Resource: res, Source: src}
	if bind, ok := l.binders[res.Exports]; ok && res.Exports != "" {
		mod.Value, err = bind(ctx, mod)
		if err != nil {
			return nil, err
		}
	}
	return mod, nil
}

// Once wraps fn so that it runs at most once no matter how many times the
// returned callback is invoked. Later invocations return the first result.
func Once(fn docsite.ReadyFunc) docsite.ReadyFunc {
	var (
		once sync.Once
		err  error
	)
	return func(ctx context.Context, mods ...*docsite.Module) error {
		once.Do(func() {
			err = fn(ctx, mods...)
		})
		return err
	}
}
