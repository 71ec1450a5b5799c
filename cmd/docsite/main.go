package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/fs"
	"github.com/fwojciec/docsite/goquery"
	dochttp "github.com/fwojciec/docsite/http"
	"github.com/fwojciec/docsite/loader"
	"github.com/fwojciec/docsite/mathjax"
	docslog "github.com/fwojciec/docsite/slog"
	"github.com/fwojciec/docsite/sqlite"
	"github.com/fwojciec/docsite/toml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor DOCSITE_DB is set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher overrides the HTTP fetcher, for end-to-end testing.
	Fetcher docsite.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// dbCommands are the commands that read or write stored sites.
var dbCommands = map[string]bool{
	"import": true,
	"list":   true,
	"delete": true,
	"query":  true,
	"verify": true,
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsite"),
		kong.Description("Inspect, search and generate documentation site front-end artifacts."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docsite --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := toml.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCSITE_CONFIG or --config to a valid TOML file\n")
		return fmt.Errorf("failed to load config: %w", err)
	}
	deps.Config = cfg

	// Wire fetch-based services
	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = dochttp.NewFetcher()
	}
	deps.Fetcher = docslog.NewLoggingFetcher(fetcher, deps.Logger)
	defer deps.Fetcher.Close()
	deps.Detector = docslog.NewLoggingDetector(goquery.NewDetector(), deps.Logger)
	deps.Loader = docslog.NewLoggingLoader(
		loader.New(deps.Fetcher, loader.WithBinder(mathjax.Exports, mathjax.Bind)),
		deps.Logger,
	)
	deps.NewStore = func(dir string) docsite.ArtifactStore { return fs.NewArtifactStore(dir) }

	// Open database for commands that need stored sites
	if dbCommands[cmd] || (cmd == "generate" && cli.Generate.Site != "") {
		dbPath := cli.DB
		if dbPath == "" {
			dbPath = m.DBPath
		}
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DOCSITE_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()

		deps.Sites = sqlite.NewSiteService(m.DB)
		deps.Records = sqlite.NewRecordService(m.DB)
		deps.Searcher = docslog.NewLoggingSearcher(sqlite.NewSearchService(m.DB), deps.Logger)
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "docsite.db"
	}
	dir := filepath.Join(home, ".docsite")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docsite.db")
}
