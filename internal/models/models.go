// package models defines the persisted data model for playlist creation history
package models

import (
	"fmt"
	"time"
)

// Creation records one successfully created playlist: what was made, for
// whom, and where it lives on Spotify.
type Creation struct {
	ID            string    `json:"id"`
	Sequence      int       `json:"sequence"`
	PlaylistID    string    `json:"playlist_id"`
	ExternalURL   string    `json:"external_url"`
	Name          string    `json:"name"`
	Visibility    string    `json:"visibility"`
	Collaborative bool      `json:"collaborative"`
	TrackCount    int       `json:"track_count"`
	UserKey       string    `json:"user_key"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks that the creation carries the fields the history table requires.
func (c *Creation) Validate() error {
	if c.PlaylistID == "" {
		return fmt.Errorf("creation missing playlist id")
	}
	if c.ExternalURL == "" {
		return fmt.Errorf("creation missing external url")
	}
	if c.Name == "" {
		return fmt.Errorf("creation missing playlist name")
	}
	return nil
}
