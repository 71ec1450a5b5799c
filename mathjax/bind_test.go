package mathjax_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/mathjax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	t.Parallel()

	t.Run("reads version from source and hint from location", func(t *testing.T) {
		t.Parallel()

		mod := &docsite.Module{
			Resource: docsite.Resource{Name: "mathjax", Location: mathjax.DefaultLocation, Exports: mathjax.Exports},
			Source:   `(function(){MathJax.version="2.7.1";MathJax.Hub={}})();`,
		}

		v, err := mathjax.Bind(context.Background(), mod)

		require.NoError(t, err)
		hub, ok := v.(*mathjax.Hub)
		require.True(t, ok)
		assert.Equal(t, "2.7.1", hub.Version())
		assert.Equal(t, "TeX-AMS_HTML", hub.ConfigHint())
		assert.Empty(t, hub.Macros())
	})

	t.Run("falls back to version in location path", func(t *testing.T) {
		t.Parallel()

		mod := &docsite.Module{
			Resource: docsite.Resource{Name: "mathjax", Location: "https://cdn.example.com/ajax/libs/mathjax/2.7.5/MathJax.js"},
			Source:   "window.MathJax = {};",
		}

		v, err := mathjax.Bind(context.Background(), mod)

		require.NoError(t, err)
		assert.Equal(t, "2.7.5", v.(*mathjax.Hub).Version())
		assert.Empty(t, v.(*mathjax.Hub).ConfigHint())
	})

	t.Run("rejects empty script", func(t *testing.T) {
		t.Parallel()

		mod := &docsite.Module{Resource: docsite.Resource{Name: "mathjax"}, Source: "  \n"}

		_, err := mathjax.Bind(context.Background(), mod)

		require.Error(t, err)
		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err))
	})
}

func TestSetup(t *testing.T) {
	t.Parallel()

	t.Run("installs macros into hub", func(t *testing.T) {
		t.Parallel()

		hub := mathjax.NewHub("2.7.1", "")
		mod := &docsite.Module{Resource: docsite.Resource{Name: "mathjax"}, Value: hub}

		err := mathjax.Setup(mathjax.DefaultMacros())(context.Background(), mod)

		require.NoError(t, err)
		got, err := hub.Expand(`\abs{x}`)
		require.NoError(t, err)
		assert.Equal(t, `\left|x\right|`, got)
	})

	t.Run("rejects module without hub", func(t *testing.T) {
		t.Parallel()

		mod := &docsite.Module{Resource: docsite.Resource{Name: "jquery"}, Value: "not a hub"}

		err := mathjax.Setup(mathjax.DefaultMacros())(context.Background(), mod)

		require.Error(t, err)
		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err))
	})

	t.Run("rejects invalid table before touching hub", func(t *testing.T) {
		t.Parallel()

		hub := mathjax.NewHub("", "")
		mod := &docsite.Module{Resource: docsite.Resource{Name: "mathjax"}, Value: hub}
		table := docsite.MacroTable{"vec": {Name: "vec", Template: `\mathbf{#1}`, Arity: 2}}

		err := mathjax.Setup(table)(context.Background(), mod)

		require.Error(t, err)
		assert.Empty(t, hub.Macros())
	})

	t.Run("rejects call without modules", func(t *testing.T) {
		t.Parallel()

		err := mathjax.Setup(mathjax.DefaultMacros())(context.Background())

		require.Error(t, err)
	})
}
