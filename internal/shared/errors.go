package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed    = fmt.Errorf("authorization code exchange failed")
	ErrTokenObtained = fmt.Errorf("access token already obtained")
	ErrTimeout       = fmt.Errorf("operation timed out")

	// Pipeline errors
	ErrRateLimited = fmt.Errorf("processing quota exceeded")

	// Input validation errors
	ErrBadVisibility   = fmt.Errorf("unrecognized playlist visibility")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// CatalogError is a non-success response from the Spotify Web API. It carries
// the upstream status code and response body so callers can log the failure
// with full context; it is never retried.
type CatalogError struct {
	Status int
	Body   string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog API error: status %d: %s", e.Status, e.Body)
}
