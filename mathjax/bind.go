package mathjax

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/fwojciec/docsite"
)

// Exports is the global the MathJax script defines.
const Exports = "MathJax"

var (
	sourceVersionRe = regexp.MustCompile(`MathJax\.version\s*=\s*["']([^"']+)["']`)
	pathVersionRe   = regexp.MustCompile(`(?i)/mathjax/(\d+(?:\.\d+)*)/`)
)

// Bind turns a fetched MathJax script into a *Hub. It is registered with
// the module loader under the MathJax export name.
func Bind(_ context.Context, mod *docsite.Module) (any, error) {
	if strings.TrimSpace(mod.Source) == "" {
		return nil, docsite.Errorf(docsite.EINVALID, "module %q: empty script", mod.Name)
	}

	var version, hint string
	if m := sourceVersionRe.FindStringSubmatch(mod.Source); m != nil {
		version = m[1]
	}
	if u, err := url.Parse(mod.Location); err == nil {
		hint = u.Query().Get("config")
		if version == "" {
			if m := pathVersionRe.FindStringSubmatch(u.Path); m != nil {
				version = m[1]
			}
		}
	}

	return NewHub(version, hint), nil
}

// Setup returns the completion callback that installs table into the hub
// exported by the first loaded module.
func Setup(table docsite.MacroTable) docsite.ReadyFunc {
	return func(_ context.Context, mods ...*docsite.Module) error {
		if len(mods) == 0 {
			return docsite.Errorf(docsite.EINVALID, "no module to configure")
		}
		hub, ok := mods[0].Value.(*Hub)
		if !ok {
			return docsite.Errorf(docsite.EINVALID, "module %q does not export a MathJax hub", mods[0].Name)
		}
		if err := table.Validate(); err != nil {
			return err
		}
		hub.Config(HubConfig{TeX: TeXConfig{Macros: table}})
		return nil
	}
}
