package goquery_test

import (
	"testing"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("detects Documenter from loader entry point", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html lang="en">
<head>
<title>Home · MatrixPolynomials.jl</title>
<script src="https://cdnjs.cloudflare.com/ajax/libs/require.js/2.2.0/require.min.js" data-main="assets/documenter.js"></script>
</head>
<body><article id="docs"></article></body>
</html>`

		assert.Equal(t, docsite.GeneratorDocumenter, goquery.NewDetector().Detect(html))
	})

	t.Run("detects Documenter from base URL assignment", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script>documenterBaseURL=".."</script></head><body></body></html>`

		assert.Equal(t, docsite.GeneratorDocumenter, goquery.NewDetector().Detect(html))
	})

	t.Run("detects Documenter from app container", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="documenter"><nav class="docs-sidebar"></nav></div></body></html>`

		assert.Equal(t, docsite.GeneratorDocumenter, goquery.NewDetector().Detect(html))
	})

	t.Run("prefers meta generator tag", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="generator" content="Documenter.jl"></head>
<body><div class="sphinxsidebar"></div></body></html>`

		assert.Equal(t, docsite.GeneratorDocumenter, goquery.NewDetector().Detect(html))
	})

	t.Run("detects Sphinx", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="wy-nav-side"></div></body></html>`

		assert.Equal(t, docsite.GeneratorSphinx, goquery.NewDetector().Detect(html))
	})

	t.Run("detects MkDocs from meta generator", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="generator" content="mkdocs-1.5.3, mkdocs-material-9.4.6"></head><body></body></html>`

		assert.Equal(t, docsite.GeneratorMkDocs, goquery.NewDetector().Detect(html))
	})

	t.Run("returns unknown for plain page", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script>var x = 1;</script></head><body><p>Hello</p></body></html>`

		assert.Equal(t, docsite.GeneratorUnknown, goquery.NewDetector().Detect(html))
	})
}
