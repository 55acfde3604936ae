package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/talgya/starforge/internal/catalog"
	"github.com/talgya/starforge/internal/config"
	"github.com/talgya/starforge/internal/entropy"
	"github.com/talgya/starforge/internal/logging"
	"github.com/talgya/starforge/internal/system"
)

// generatorVersion is recorded in every catalog this binary writes to.
const generatorVersion = "1"

var errNoCatalog = errors.New("no catalog configured: set --catalog or STARFORGE_CATALOG")

// app is the state shared by every subcommand.
type app struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
	asJSON bool

	gen     *system.Generator
	catalog *catalog.DB // nil when no catalog path is set
}

// run executes the CLI with args and always releases the catalog.
func run(args []string, cfg config.Config, stdout, stderr io.Writer) error {
	a := &app{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		gen:    system.DefaultGenerator(),
	}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "starforge",
		Short: "Procedural stars, solar systems and galactic regions",
		Long: `starforge generates astronomical objects deterministically from 64-bit seeds.
The same seed always yields the same star, system or small body.

Settings come from the environment (STARFORGE_*) or a .env file; flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.CatalogPath, "catalog", a.cfg.CatalogPath, "SQLite catalog path; empty disables recording")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn or error")
	f.BoolVar(&a.cfg.LogJSON, "log-json", a.cfg.LogJSON, "emit logs as JSON")
	f.BoolVar(&a.asJSON, "json", false, "print results as JSON")

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.AddCommand(
		a.starCmd(),
		a.planetCmd(),
		a.systemCmd(),
		a.regionCmd(),
		a.profileCmd(),
		a.bodiesCmd(),
		a.surveyCmd(),
		a.catalogCmd(),
		a.serveCmd(),
	)
	return root
}

// open installs the logger and opens the catalog if one is configured.
func (a *app) open() error {
	slog.SetDefault(logging.New(a.stderr, a.cfg.LogLevel, a.cfg.LogJSON))

	if a.cfg.CatalogPath == "" {
		return nil
	}
	if dir := filepath.Dir(a.cfg.CatalogPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}

	db, err := catalog.Open(a.cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	a.catalog = db

	if err := db.SetMeta("generator_version", generatorVersion); err != nil {
		return fmt.Errorf("record generator version: %w", err)
	}
	slog.Debug("catalog opened", "path", a.cfg.CatalogPath)
	return nil
}

func (a *app) close() {
	if a.catalog == nil {
		return
	}
	if err := a.catalog.Close(); err != nil {
		slog.Warn("failed to close catalog", "error", err)
	}
	a.catalog = nil
}

// seedFlag returns the --seed value, or fresh ambient entropy when unset.
func seedFlag(cmd *cobra.Command, seed uint64) uint64 {
	if cmd.Flags().Changed("seed") {
		return seed
	}
	s := entropy.Seed()
	slog.Debug("no seed given, drew one", "seed", s)
	return s
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
