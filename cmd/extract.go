package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/chatdj/internal/chat"
	"github.com/desertthunder/chatdj/internal/shared"
	"github.com/urfave/cli/v3"
)

// Extract scans a chat file and lists the track references it contains.
func (r *Runner) Extract(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: chat file path", shared.ErrMissingArgument)
	}

	chatText, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read chat file: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(chat.Collect(string(chatText)), true)
	}

	count := 0
	for ref := range chat.Detect(string(chatText)) {
		count++
		if ref.Extra != "" {
			r.writePlain("%s\t%s\n", ref.ID, ref.Extra)
		} else {
			r.writePlainln(ref.ID)
		}
	}

	r.writePlain("%d track(s) found\n", count)

	return nil
}
