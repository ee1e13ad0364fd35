package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/chatdj/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists past playlist creations from the local database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	history, db, err := r.openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	if history == nil {
		return fmt.Errorf("%w: no database path configured", shared.ErrInvalidConfig)
	}
	defer db.Close()

	creations, err := history.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(creations, true)
	}

	if len(creations) == 0 {
		return r.writePlainln("No playlists created yet.")
	}

	for _, c := range creations {
		r.writePlain("%s  %s  %d track(s)  %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.Name, c.TrackCount, c.ExternalURL)
	}

	return nil
}
