// package repositories provides the SQLite persistence layer for playlist
// creation history.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/chatdj/internal/models"
	"github.com/desertthunder/chatdj/internal/shared"
)

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers provide human-readable ordering for rows; they are used
// for sorting, not exposed as identifiers.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// CreationRepository stores [models.Creation] rows with soft delete support.
type CreationRepository struct {
	db *sql.DB
}

// NewCreationRepository creates a new CreationRepository with the given database connection
func NewCreationRepository(db *sql.DB) *CreationRepository {
	return &CreationRepository{db: db}
}

// Create inserts a new creation row with generated ID and sequence
func (r *CreationRepository) Create(creation *models.Creation) error {
	sequence, err := NextSequence(r.db, "creations")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	creation.ID = shared.GenerateID()
	creation.Sequence = sequence
	if creation.CreatedAt.IsZero() {
		creation.CreatedAt = time.Now()
	}

	if err := creation.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO creations (id, sequence, playlist_id, external_url, name, visibility, collaborative, track_count, user_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		creation.ID,
		creation.Sequence,
		creation.PlaylistID,
		creation.ExternalURL,
		creation.Name,
		creation.Visibility,
		creation.Collaborative,
		creation.TrackCount,
		creation.UserKey,
		creation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creation: %w", err)
	}

	return nil
}

// Get retrieves a creation by ID, excluding soft-deleted rows
func (r *CreationRepository) Get(id string) (*models.Creation, error) {
	query := `
		SELECT id, sequence, playlist_id, external_url, name, visibility, collaborative, track_count, user_key, created_at
		FROM creations
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// List retrieves the most recent creations, newest first, capped at limit.
func (r *CreationRepository) List(limit int) ([]*models.Creation, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, sequence, playlist_id, external_url, name, visibility, collaborative, track_count, user_key, created_at
		FROM creations
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list creations: %w", err)
	}
	defer rows.Close()

	var creations []*models.Creation
	for rows.Next() {
		var c models.Creation
		if err := rows.Scan(&c.ID, &c.Sequence, &c.PlaylistID, &c.ExternalURL, &c.Name, &c.Visibility, &c.Collaborative, &c.TrackCount, &c.UserKey, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan creation: %w", err)
		}
		creations = append(creations, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate creations: %w", err)
	}

	return creations, nil
}

// Delete soft-deletes a creation by ID
func (r *CreationRepository) Delete(id string) error {
	query := `
		UPDATE creations
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete creation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("creation not found or already deleted: %s", id)
	}

	return nil
}

func (r *CreationRepository) scanOne(row *sql.Row) (*models.Creation, error) {
	var c models.Creation
	err := row.Scan(&c.ID, &c.Sequence, &c.PlaylistID, &c.ExternalURL, &c.Name, &c.Visibility, &c.Collaborative, &c.TrackCount, &c.UserKey, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("creation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan creation: %w", err)
	}
	return &c, nil
}
