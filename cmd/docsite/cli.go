package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/toml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Config   *toml.Config
	Sites    docsite.SiteService
	Records  docsite.RecordService
	Searcher docsite.Searcher
	Fetcher  docsite.Fetcher
	Detector docsite.GeneratorDetector
	Loader   docsite.ModuleLoader
	NewStore func(dir string) docsite.ArtifactStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"DOCSITE_DB" help:"Database path"`
	Config  string `env:"DOCSITE_CONFIG" help:"Site configuration file (TOML)"`
	Verbose bool   `short:"v" help:"Log operations to stderr"`

	Check    CheckCmd    `cmd:"" help:"Validate a search index file"`
	Search   SearchCmd   `cmd:"" help:"Search a search index file"`
	Import   ImportCmd   `cmd:"" help:"Import the search index of a documentation site"`
	List     ListCmd     `cmd:"" help:"List imported sites"`
	Delete   DeleteCmd   `cmd:"" help:"Delete an imported site"`
	Query    QueryCmd    `cmd:"" help:"Search imported sites"`
	Expand   ExpandCmd   `cmd:"" help:"Expand configured TeX macros"`
	Generate GenerateCmd `cmd:"" help:"Write search_index.js and assets/latex.js"`
	Verify   VerifyCmd   `cmd:"" help:"Check that an imported site's records resolve"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	File   string `arg:"" type:"existingfile" help:"search_index.js or JSON file"`
	Macros string `help:"JSON macro table to validate"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	File     string   `arg:"" type:"existingfile" help:"search_index.js or JSON file"`
	Query    string   `arg:"" help:"Search query"`
	Category []string `short:"c" help:"Restrict to category (repeatable)"`
	Limit    int      `short:"n" default:"10" help:"Maximum results"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Name  string `arg:"" help:"Site name"`
	URL   string `arg:"" help:"Page URL or search index URL"`
	Force bool   `short:"f" help:"Replace records of an existing site"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Site name"`
	Force bool   `help:"Confirm deletion"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Name     string   `arg:"" help:"Site name"`
	Query    string   `arg:"" help:"Search query"`
	Category []string `short:"c" help:"Restrict to category (repeatable)"`
	Limit    int      `short:"n" default:"10" help:"Maximum results"`
}

// ExpandCmd is the "expand" subcommand.
type ExpandCmd struct {
	TeX string `arg:"" name:"tex" help:"TeX source to expand"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	Dir   string `arg:"" help:"Site output directory"`
	Site  string `help:"Write the search index of this imported site"`
	Index string `help:"Write the search index read from this file"`
}

// VerifyCmd is the "verify" subcommand.
type VerifyCmd struct {
	Name        string  `arg:"" help:"Site name"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent fetch limit"`
	Rate        float64 `default:"2" help:"Requests per second per host"`
}
