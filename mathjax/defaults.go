package mathjax

import "github.com/fwojciec/docsite"

// DefaultName is the module name the page requires MathJax under.
const DefaultName = "mathjax"

// DefaultLocation is the CDN build the generated pages load.
const DefaultLocation = "https://cdnjs.cloudflare.com/ajax/libs/mathjax/2.7.1/MathJax.js?config=TeX-AMS_HTML"

// DefaultLoaderConfig declares MathJax as a shimmed, non-module script.
func DefaultLoaderConfig() docsite.LoaderConfig {
	return docsite.LoaderConfig{
		Paths: map[string]string{DefaultName: DefaultLocation},
		Shim:  map[string]docsite.Shim{DefaultName: {Exports: Exports}},
	}
}

// DefaultMacros returns the notation shortcuts used throughout the
// documentation.
func DefaultMacros() docsite.MacroTable {
	table := docsite.MacroTable{}
	for _, m := range []docsite.Macro{
		{Name: "defd", Template: "≝"},
		{Name: "abs", Template: `\left|#1\right|`, Arity: 1},
		{Name: "vec", Template: `\mathbf{#1}`, Arity: 1},
		{Name: "mat", Template: `\mathsf{#1}`, Arity: 1},
		{Name: "conj", Template: `#1^*`, Arity: 1},
		{Name: "ce", Template: `\mathrm{e}`},
		{Name: "im", Template: `\mathrm{i}`},
		{Name: "diff", Template: `\mathrm{d}#1\,`, Arity: 1},
		{Name: "Beta", Template: `\mathrm{B}`},
		{Name: "divdiff", Template: "⍋"},
		{Name: "bmat", Template: `\begin{bmatrix}#1\end{bmatrix}`, Arity: 1},
	} {
		table.Define(m)
	}
	return table
}
