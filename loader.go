package docsite

import (
	"context"
	"net/url"
	"sort"
)

// Resource is a named external script the page loader can fetch.
type Resource struct {
	// Name is the symbolic module name used by Require.
	Name string

	// Location is the URI the module is fetched from.
	Location string

	// Exports names the global the script defines when it does not
	// register itself as a module. Empty for self-registering modules.
	Exports string
}

// Validate returns an error if the resource contains invalid fields.
func (r *Resource) Validate() error {
	if r.Name == "" {
		return Errorf(EINVALID, "resource name required")
	}
	if r.Location == "" {
		return Errorf(EINVALID, "resource %q: location required", r.Name)
	}
	if _, err := url.Parse(r.Location); err != nil {
		return Errorf(EINVALID, "resource %q: invalid location %q", r.Name, r.Location)
	}
	return nil
}

// Shim describes a non-module script.
type Shim struct {
	Exports string `json:"exports" toml:"exports"`
}

// LoaderConfig declares where modules live and how to bind scripts that
// do not register themselves.
type LoaderConfig struct {
	Paths map[string]string `json:"paths" toml:"paths"`
	Shim  map[string]Shim   `json:"shim,omitempty" toml:"shim"`
}

// Validate returns an error if any declared path is invalid.
func (c *LoaderConfig) Validate() error {
	for _, name := range c.Names() {
		r, _ := c.Resource(name)
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for name := range c.Shim {
		if name == "" {
			return Errorf(EINVALID, "shim name required")
		}
	}
	return nil
}

// Names returns the declared module names in sorted order.
func (c *LoaderConfig) Names() []string {
	names := make([]string, 0, len(c.Paths))
	for name := range c.Paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resource resolves a symbolic name to its registration entry.
func (c *LoaderConfig) Resource(name string) (Resource, bool) {
	loc, ok := c.Paths[name]
	if !ok {
		return Resource{}, false
	}
	return Resource{
		Name:     name,
		Location: loc,
		Exports:  c.Shim[name].Exports,
	}, true
}

// NameForExport returns the module whose shim exports the given global.
func (c *LoaderConfig) NameForExport(exports string) (string, bool) {
	for _, name := range c.Names() {
		if c.Shim[name].Exports == exports {
			return name, true
		}
	}
	return "", false
}

// Module is a fetched and bound resource.
type Module struct {
	Resource

	// Source is the fetched script body.
	Source string

	// Value is what the module exports once bound, such as a renderer
	// handle. Nil when no binder is registered for the export name.
	Value any
}

// ReadyFunc is invoked once the requested modules are available, in the
// order they were requested.
type ReadyFunc func(ctx context.Context, mods ...*Module) error

// ModuleLoader resolves symbolic names, fetches each module at most once and
// hands the loaded modules to a completion callback.
type ModuleLoader interface {
	// Configure merges path and shim declarations into the loader.
	// Returns ECONFLICT when a loaded module would be remapped to a
	// different location.
	Configure(cfg LoaderConfig) error

	// Require loads the named modules and calls ready with them.
	// Returns ENOTFOUND if a name has no declared location. Fetch errors
	// are returned as-is; nothing is retried.
	Require(ctx context.Context, names []string, ready ReadyFunc) error
}
