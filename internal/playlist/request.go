// package playlist builds the read-only request handed to the creation pipeline
package playlist

import (
	"fmt"

	"github.com/desertthunder/chatdj/internal/chat"
	"github.com/desertthunder/chatdj/internal/shared"
)

// Visibility is the closed set of playlist visibilities.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// ParseVisibility parses the case-exact tokens "Private" and "Public"; any
// other token fails with [shared.ErrBadVisibility].
func ParseVisibility(s string) (Visibility, error) {
	switch s {
	case "Private":
		return Private, nil
	case "Public":
		return Public, nil
	}
	return Private, fmt.Errorf("%w: %q", shared.ErrBadVisibility, s)
}

func (v Visibility) String() string {
	if v == Public {
		return "Public"
	}
	return "Private"
}

// Request aggregates extractor output with user-supplied metadata for one
// playlist. It is built once and only read afterward; ownership passes to the
// pipeline that creates the playlist.
type Request struct {
	Name          string
	Description   string
	Visibility    Visibility
	Collaborative bool
	Tracks        []chat.TrackRef

	inputBytes int64
}

// NewRequest parses the visibility token and scans chatText for track links.
// Parse failures surface here, before any network activity.
func NewRequest(name, description, visibilityToken string, collaborative bool, chatText string) (*Request, error) {
	visibility, err := ParseVisibility(visibilityToken)
	if err != nil {
		return nil, err
	}

	return &Request{
		Name:          name,
		Description:   description,
		Visibility:    visibility,
		Collaborative: collaborative,
		Tracks:        chat.Collect(chatText),
		inputBytes:    int64(len(chatText)),
	}, nil
}

// InputBytes is the size of the source text, the unit the usage ledger is
// charged in.
func (r *Request) InputBytes() int64 {
	return r.inputBytes
}

// TrackIDs returns the track IDs in first-occurrence order, duplicates kept.
func (r *Request) TrackIDs() []string {
	ids := make([]string, 0, len(r.Tracks))
	for _, t := range r.Tracks {
		ids = append(ids, t.ID)
	}
	return ids
}
