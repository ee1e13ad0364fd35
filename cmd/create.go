package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/chatdj/internal/playlist"
	"github.com/desertthunder/chatdj/internal/shared"
	"github.com/desertthunder/chatdj/internal/tasks"
	"github.com/desertthunder/chatdj/internal/ui"
	"github.com/urfave/cli/v3"
)

// Create runs the full pipeline: scan the chat file, check the usage quota,
// then create and populate the playlist on Spotify.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: chat file path", shared.ErrMissingArgument)
	}

	chatText, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read chat file: %w", err)
	}

	req, err := playlist.NewRequest(
		cmd.String("name"),
		cmd.String("description"),
		cmd.String("visibility"),
		cmd.Bool("collaborative"),
		string(chatText),
	)
	if err != nil {
		return err
	}

	r.logger.Info("scanned chat input", "tracks", len(req.Tracks), "bytes", req.InputBytes())
	if len(req.Tracks) == 0 {
		r.writePlainln(ui.Styles.Warn.Render("⚠ No track links found; the playlist will be empty."))
	}

	client, err := r.newClient()
	if err != nil {
		return err
	}

	code := cmd.String("code")
	if code == "" {
		if code, err = r.captureAuthCode(ctx, client); err != nil {
			return err
		}
	}

	userKey := cmd.String("user")
	if userKey == "" {
		userKey = r.config.Credentials.Spotify.ClientID
	}

	history, db, err := r.openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	engine := tasks.NewEngine(r.ledger, history, r.logger)

	url, err := engine.Create(ctx, client, userKey, code, req)
	if err != nil {
		return err
	}

	r.writePlainln(ui.Styles.Title.Render(req.Name))
	r.writePlainln(ui.Styles.OK.Render(fmt.Sprintf("✓ Created %s playlist with %d tracks", req.Visibility, len(req.Tracks))))
	r.writePlain("%s\n", url)

	return nil
}
