package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/loader"
	"github.com/fwojciec/docsite/mathjax"
)

// Run executes the expand command. It loads MathJax the way a generated
// page does and expands the configured macros in the given TeX.
func (c *ExpandCmd) Run(deps *Dependencies) error {
	name, ok := deps.Config.Loader.NameForExport(mathjax.Exports)
	if !ok {
		err := docsite.Errorf(docsite.EINVALID, "no loader module exports %s", mathjax.Exports)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	if err := deps.Loader.Configure(deps.Config.Loader); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	var hub *mathjax.Hub
	setup := mathjax.Setup(deps.Config.Macros)
	ready := loader.Once(func(ctx context.Context, mods ...*docsite.Module) error {
		if err := setup(ctx, mods...); err != nil {
			return err
		}
		hub = mods[0].Value.(*mathjax.Hub)
		return nil
	})
	if err := deps.Loader.Require(deps.Ctx, []string{name}, ready); err != nil {
		fmt.Fprintf(deps.Stderr, "error: loading %s: %s\n", name, docsite.ErrorMessage(err))
		return err
	}

	out, err := hub.Expand(c.TeX)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, out)
	return nil
}
