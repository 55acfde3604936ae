// Command starforge generates stars, solar systems, galactic regions and
// small-body fields from seeds, optionally recording them in a SQLite catalog.
package main

import (
	"log/slog"
	"os"

	"github.com/talgya/starforge/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(os.Args[1:], cfg, os.Stdout, os.Stderr); err != nil {
		slog.Error("starforge failed", "error", err)
		os.Exit(1)
	}
}
