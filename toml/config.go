// Package toml loads site configuration from TOML files: loader paths and
// shims, the renderer's macro table and the recognized search categories.
package toml

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/docsite"
)

//go:embed default.toml
var defaultConfig string

// Config is the site configuration.
type Config struct {
	Loader docsite.LoaderConfig `toml:"loader"`
	Macros docsite.MacroTable   `toml:"macros"`
	Search SearchConfig         `toml:"search"`
}

// SearchConfig configures search index handling.
type SearchConfig struct {
	// IndexName is the variable generated indexes are assigned to.
	IndexName string `toml:"index_name"`

	// Categories extends the default recognized categories.
	Categories []string `toml:"categories"`
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	var cfg Config
	if err := decode(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	return &cfg, nil
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, docsite.Errorf(docsite.ENOTFOUND, "config file %q not found", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads configuration from r over the defaults. Paths, shims and
// macros merge by name with r winning; categories are added.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	var overlay Config
	if err := decode(string(data), &overlay); err != nil {
		return nil, err
	}
	cfg.merge(&overlay)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return docsite.Errorf(docsite.EINVALID, "invalid config: %s", err)
	}
	for _, key := range md.Undecoded() {
		// The macro table decodes itself.
		if len(key) > 0 && key[0] == "macros" {
			continue
		}
		return docsite.Errorf(docsite.EINVALID, "unknown config key %q", key.String())
	}
	return nil
}

func (c *Config) merge(o *Config) {
	if c.Loader.Paths == nil {
		c.Loader.Paths = map[string]string{}
	}
	for name, loc := range o.Loader.Paths {
		c.Loader.Paths[name] = loc
	}
	if c.Loader.Shim == nil {
		c.Loader.Shim = map[string]docsite.Shim{}
	}
	for name, shim := range o.Loader.Shim {
		c.Loader.Shim[name] = shim
	}

	if c.Macros == nil {
		c.Macros = docsite.MacroTable{}
	}
	c.Macros.Merge(o.Macros)

	if o.Search.IndexName != "" {
		c.Search.IndexName = o.Search.IndexName
	}
	c.Search.Categories = append(c.Search.Categories, o.Search.Categories...)
}

// Validate returns an error if the loader declarations or macros are invalid.
func (c *Config) Validate() error {
	if err := c.Loader.Validate(); err != nil {
		return err
	}
	if err := c.Macros.Validate(); err != nil {
		return err
	}
	for _, cat := range c.Search.Categories {
		if cat == "" {
			return docsite.Errorf(docsite.EINVALID, "empty search category")
		}
	}
	return nil
}

// Categories returns the default categories plus the configured ones.
func (c *Config) Categories() docsite.CategorySet {
	set := docsite.DefaultCategories()
	for _, cat := range c.Search.Categories {
		set.Add(docsite.Category(cat))
	}
	return set
}

// IndexName returns the configured index variable name or the default.
func (c *Config) IndexName() string {
	if c.Search.IndexName == "" {
		return docsite.DefaultIndexName
	}
	return c.Search.IndexName
}
