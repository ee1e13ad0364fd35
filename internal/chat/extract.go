// package chat extracts Spotify track references from free-form chat text
package chat

import (
	"iter"
	"regexp"
)

// trackURLPattern matches the canonical share link for a single track, e.g.
// https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc123
//
// The ID is any run of non-whitespace, non-'?' characters; the query string,
// when present, is the remaining non-whitespace.
var trackURLPattern = regexp.MustCompile(`https://open\.spotify\.com/track/([^?\s]+)(?:\?(\S+))?`)

// TrackRef is a single track mention found in chat text. Extra holds the raw
// query string from the share link, empty when the link had none. No check is
// made that the ID denotes a real track; the Web API rejects bad IDs when the
// track is added.
type TrackRef struct {
	ID    string `json:"id"`
	Extra string `json:"extra,omitempty"`
}

// Detect returns a lazy sequence of the track references in text, scanned
// left to right without overlap. Duplicate links yield duplicate references
// and first-occurrence order is preserved. The sequence can be ranged over
// any number of times; each range restarts the scan.
func Detect(text string) iter.Seq[TrackRef] {
	return func(yield func(TrackRef) bool) {
		rest := text
		for {
			m := trackURLPattern.FindStringSubmatchIndex(rest)
			if m == nil {
				return
			}

			ref := TrackRef{ID: rest[m[2]:m[3]]}
			if m[4] >= 0 {
				ref.Extra = rest[m[4]:m[5]]
			}

			if !yield(ref) {
				return
			}
			rest = rest[m[1]:]
		}
	}
}

// Collect runs Detect to completion and returns the references as a slice.
func Collect(text string) []TrackRef {
	var refs []TrackRef
	for ref := range Detect(text) {
		refs = append(refs, ref)
	}
	return refs
}
