package loader_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/loader"
	"github.com/fwojciec/docsite/mathjax"
	"github.com/fwojciec/docsite/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mathjaxSource = `MathJax.version="2.7.1";`

func countingFetcher(calls *atomic.Int32, body string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			calls.Add(1)
			return body, nil
		},
		CloseFn: func() error { return nil },
	}
}

func TestLoader_Require(t *testing.T) {
	t.Parallel()

	t.Run("fetches declared location and binds export", func(t *testing.T) {
		t.Parallel()

		var fetchedURL string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetchedURL = url
				return mathjaxSource, nil
			},
		}
		l := loader.New(fetcher, loader.WithBinder(mathjax.Exports, mathjax.Bind))
		require.NoError(t, l.Configure(mathjax.DefaultLoaderConfig()))

		var got *docsite.Module
		err := l.Require(context.Background(), []string{"mathjax"}, func(_ context.Context, mods ...*docsite.Module) error {
			got = mods[0]
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, mathjax.DefaultLocation, fetchedURL)
		require.NotNil(t, got)
		assert.Equal(t, "mathjax", got.Name)
		assert.Equal(t, "MathJax", got.Exports)
		hub, ok := got.Value.(*mathjax.Hub)
		require.True(t, ok)
		assert.Equal(t, "2.7.1", hub.Version())
		assert.True(t, l.Loaded("mathjax"))
	})

	t.Run("setup callback installs macros", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		l := loader.New(countingFetcher(&calls, mathjaxSource), loader.WithBinder(mathjax.Exports, mathjax.Bind))
		require.NoError(t, l.Configure(mathjax.DefaultLoaderConfig()))

		require.NoError(t, l.Require(context.Background(), []string{"mathjax"}, mathjax.Setup(mathjax.DefaultMacros())))

		var hub *mathjax.Hub
		require.NoError(t, l.Require(context.Background(), []string{"mathjax"}, func(_ context.Context, mods ...*docsite.Module) error {
			hub = mods[0].Value.(*mathjax.Hub)
			return nil
		}))
		got, err := hub.Expand(`\abs{x}`)
		require.NoError(t, err)
		assert.Equal(t, `\left|x\right|`, got)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("reuses loaded module", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		l := loader.New(countingFetcher(&calls, "x"))
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": "https://cdn.example.com/a.js"}}))

		var first, second *docsite.Module
		require.NoError(t, l.Require(context.Background(), []string{"a"}, func(_ context.Context, mods ...*docsite.Module) error {
			first = mods[0]
			return nil
		}))
		require.NoError(t, l.Require(context.Background(), []string{"a"}, func(_ context.Context, mods ...*docsite.Module) error {
			second = mods[0]
			return nil
		}))

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("concurrent requests share one fetch", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		release := make(chan struct{})
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, _ string) (string, error) {
				calls.Add(1)
				select {
				case <-release:
				case <-ctx.Done():
					return "", ctx.Err()
				}
				return "x", nil
			},
		}
		l := loader.New(fetcher)
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": "https://cdn.example.com/a.js"}}))

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- l.Require(context.Background(), []string{"a"}, nil)
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("canceled caller does not fail others sharing the fetch", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		started := make(chan struct{})
		release := make(chan struct{})
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, _ string) (string, error) {
				if calls.Add(1) == 1 {
					close(started)
				}
				select {
				case <-release:
				case <-ctx.Done():
					return "", ctx.Err()
				}
				return "x", nil
			},
		}
		l := loader.New(fetcher)
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{"m": "https://cdn.example.com/m.js"}}))

		ctxA, cancelA := context.WithCancel(context.Background())
		errA := make(chan error, 1)
		go func() { errA <- l.Require(ctxA, []string{"m"}, nil) }()
		<-started

		var gotB *docsite.Module
		errB := make(chan error, 1)
		go func() {
			errB <- l.Require(context.Background(), []string{"m"}, func(_ context.Context, mods ...*docsite.Module) error {
				gotB = mods[0]
				return nil
			})
		}()
		time.Sleep(20 * time.Millisecond)

		cancelA()
		assert.ErrorIs(t, <-errA, context.Canceled)

		close(release)
		require.NoError(t, <-errB)
		require.NotNil(t, gotB)
		assert.Equal(t, "x", gotB.Source)
		assert.Equal(t, int32(1), calls.Load())
		assert.True(t, l.Loaded("m"))
	})

	t.Run("passes modules in requested order", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return "source of " + url, nil
			},
		}
		l := loader.New(fetcher)
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{
			"a": "https://cdn.example.com/a.js",
			"b": "https://cdn.example.com/b.js",
		}}))

		var names []string
		require.NoError(t, l.Require(context.Background(), []string{"b", "a"}, func(_ context.Context, mods ...*docsite.Module) error {
			for _, m := range mods {
				names = append(names, m.Name)
			}
			return nil
		}))

		assert.Equal(t, []string{"b", "a"}, names)
	})

	t.Run("returns ENOTFOUND for undeclared name", func(t *testing.T) {
		t.Parallel()

		l := loader.New(&mock.Fetcher{})
		called := false

		err := l.Require(context.Background(), []string{"missing"}, func(context.Context, ...*docsite.Module) error {
			called = true
			return nil
		})

		require.Error(t, err)
		assert.Equal(t, docsite.ENOTFOUND, docsite.ErrorCode(err))
		assert.False(t, called)
	})

	t.Run("surfaces fetch error without caching it", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				if calls.Add(1) == 1 {
					return "", errors.New("HTTP 503")
				}
				return "x", nil
			},
		}
		l := loader.New(fetcher)
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": "https://cdn.example.com/a.js"}}))

		err := l.Require(context.Background(), []string{"a"}, nil)
		require.EqualError(t, err, "HTTP 503")
		assert.False(t, l.Loaded("a"))

		require.NoError(t, l.Require(context.Background(), []string{"a"}, nil))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("surfaces bind error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		l := loader.New(countingFetcher(&calls, ""), loader.WithBinder(mathjax.Exports, mathjax.Bind))
		require.NoError(t, l.Configure(mathjax.DefaultLoaderConfig()))

		err := l.Require(context.Background(), []string{"mathjax"}, nil)

		require.Error(t, err)
		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err))
	})

	t.Run("returns callback error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		l := loader.New(countingFetcher(&calls, "x"))
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": "https://cdn.example.com/a.js"}}))

		err := l.Require(context.Background(), []string{"a"}, func(context.Context, ...*docsite.Module) error {
			return errors.New("setup failed")
		})

		require.EqualError(t, err, "setup failed")
	})
}

func TestLoader_Configure(t *testing.T) {
	t.Parallel()

	t.Run("remaps name that has not been loaded", func(t *testing.T) {
		t.Parallel()

		var fetched string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetched = url
				return "x", nil
			},
		}
		l := loader.New(fetcher)
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": "https://old.example.com/a.js"}}))
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": "https://new.example.com/a.js"}}))

		require.NoError(t, l.Require(context.Background(), []string{"a"}, nil))
		assert.Equal(t, "https://new.example.com/a.js", fetched)
	})

	t.Run("rejects remapping a loaded module", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		l := loader.New(countingFetcher(&calls, "x"))
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": "https://old.example.com/a.js"}}))
		require.NoError(t, l.Require(context.Background(), []string{"a"}, nil))

		err := l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": "https://new.example.com/a.js"}})

		require.Error(t, err)
		assert.Equal(t, docsite.ECONFLICT, docsite.ErrorCode(err))
		require.NoError(t, l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": "https://old.example.com/a.js"}}))
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		t.Parallel()

		l := loader.New(&mock.Fetcher{})

		err := l.Configure(docsite.LoaderConfig{Paths: map[string]string{"a": ""}})

		require.Error(t, err)
		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err))
	})
}

func TestOnce(t *testing.T) {
	t.Parallel()

	var calls int
	ready := loader.Once(func(context.Context, ...*docsite.Module) error {
		calls++
		return errors.New("first")
	})

	require.EqualError(t, ready(context.Background()), "first")
	require.EqualError(t, ready(context.Background()), "first")
	assert.Equal(t, 1, calls)
}
