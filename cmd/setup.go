package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/chatdj/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter config file and initializes the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		r.logger.Warnf("skipping config creation: %v", err)
	} else {
		r.writePlain("✓ Wrote %s — add your Spotify credentials to it\n", configPath)
	}

	r.reloadConfig(configPath)

	_, db, err := r.openHistory()
	if err != nil {
		return fmt.Errorf("failed to initialize history database: %w", err)
	}
	if db == nil {
		return r.writePlainln("No database path configured; history disabled.")
	}
	defer db.Close()

	return r.writePlain("✓ History database ready at %s\n", r.config.Database.Path)
}
