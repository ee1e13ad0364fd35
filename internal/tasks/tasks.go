// package tasks orchestrates the playlist creation pipeline
package tasks

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chatdj/internal/models"
	"github.com/desertthunder/chatdj/internal/playlist"
	"github.com/desertthunder/chatdj/internal/ratelimit"
	"github.com/desertthunder/chatdj/internal/repositories"
	"github.com/desertthunder/chatdj/internal/services"
	"github.com/desertthunder/chatdj/internal/shared"
)

// Engine drives one playlist creation end to end: quota admission, the
// authorization-code exchange, user resolution, playlist creation and batched
// track addition, then a history row on success.
type Engine struct {
	ledger  *ratelimit.Ledger
	history *repositories.CreationRepository
	logger  *log.Logger
}

// NewEngine creates an Engine. history may be nil when no database is
// configured; successful runs are then simply not recorded.
func NewEngine(ledger *ratelimit.Ledger, history *repositories.CreationRepository, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{ledger: ledger, history: history, logger: logger}
}

// Create runs the pipeline for one request on a fresh [services.Client] and
// returns the playlist's external URL.
//
// The ledger is charged req.InputBytes() under userKey before any catalog
// call; denial stops the run with [shared.ErrRateLimited] and charges
// nothing. Every later failure is logged with upstream context and returned
// unchanged to the caller: no retry, no partial result, and no compensating
// delete, even though the playlist may already exist upstream with some of
// its tracks.
func (e *Engine) Create(ctx context.Context, client *services.Client, userKey, authCode string, req *playlist.Request) (string, error) {
	if !e.ledger.Register(userKey, req.InputBytes()) {
		e.logger.Warn("usage quota exceeded", "user", userKey, "bytes", req.InputBytes())
		return "", shared.ErrRateLimited
	}

	session, err := client.Exchange(ctx, authCode)
	if err != nil {
		e.logger.Error("authorization code exchange failed", "error", err)
		return "", err
	}
	e.logger.Info("obtained access token", "tracks", len(req.Tracks))

	userID, err := session.CurrentUserID(ctx)
	if err != nil {
		e.logError("failed to resolve user", err)
		return "", err
	}

	created, err := session.CreatePlaylist(ctx, userID, req.Name, req.Description, req.Visibility == playlist.Public, req.Collaborative)
	if err != nil {
		e.logError("failed to create playlist", err, "user_id", userID)
		return "", err
	}

	if err := session.AddTracks(ctx, created.ID, req.TrackIDs()); err != nil {
		e.logError("failed to add tracks to playlist", err, "playlist_id", created.ID)
		return "", err
	}

	e.logger.Info("playlist created", "playlist_id", created.ID, "tracks", len(req.Tracks))
	e.record(userKey, req, created)

	return created.ExternalURL, nil
}

// logError logs catalog failures, attaching the upstream status and body when present.
func (e *Engine) logError(msg string, err error, kv ...any) {
	var catalogErr *shared.CatalogError
	if errors.As(err, &catalogErr) {
		kv = append(kv, "status", catalogErr.Status, "body", catalogErr.Body)
	}
	e.logger.Error(msg, append(kv, "error", err)...)
}

// record writes the history row; failures are logged but never fail a run
// that already succeeded upstream.
func (e *Engine) record(userKey string, req *playlist.Request, created *services.PlaylistCreation) {
	if e.history == nil {
		return
	}

	creation := &models.Creation{
		PlaylistID:    created.ID,
		ExternalURL:   created.ExternalURL,
		Name:          req.Name,
		Visibility:    req.Visibility.String(),
		Collaborative: req.Collaborative,
		TrackCount:    len(req.Tracks),
		UserKey:       userKey,
	}

	if err := e.history.Create(creation); err != nil {
		e.logger.Warn("failed to record playlist creation", "error", err)
	}
}
