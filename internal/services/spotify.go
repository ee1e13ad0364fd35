// Spotify Web API client
//
// Endpoint shapes per https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/desertthunder/chatdj/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// TrackBatchLimit is the most track URIs the add-tracks endpoint accepts
	// in a single call.
	TrackBatchLimit = 100

	// requestsPerSecond paces outbound catalog calls well under Spotify's
	// published limits.
	requestsPerSecond = 5
)

// SpotifyUser is the subset of the current-user profile the pipeline consumes.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlaylistCreation identifies a playlist returned by [Session.CreatePlaylist].
// The external URL is reachable even before any tracks are added.
type PlaylistCreation struct {
	ID          string
	ExternalURL string
}

// Client is the unauthenticated stage of the catalog pipeline. A Client may
// perform the authorization-code exchange at most once; the [Session] it
// returns carries the credential for the rest of the run.
type Client struct {
	config     *oauth2.Config
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter

	mu        sync.Mutex
	exchanged bool
}

// NewClient creates a Client from the configured Spotify credentials.
func NewClient(cfg shared.SpotifyConfig) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrInvalidConfig)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrInvalidConfig)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
			// Spotify wants client id/secret as a basic-auth header.
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &Client{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// WithEndpoints points the client at an alternate token endpoint and API base
// URL, for local stand-ins for the catalog.
func (c *Client) WithEndpoints(tokenURL, apiURL string) *Client {
	c.config.Endpoint.TokenURL = tokenURL
	c.baseURL = apiURL
	return c
}

// WithRateLimit replaces the outbound pacing limiter.
func (c *Client) WithRateLimit(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// AuthURL returns the user authorization URL for the code flow.
func (c *Client) AuthURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a bearer token and returns the
// authenticated [Session]. A Client that already holds a credential refuses a
// second exchange with [shared.ErrTokenObtained]; a failed exchange wraps
// [shared.ErrAuthFailed]. Neither is retried.
func (c *Client) Exchange(ctx context.Context, code string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exchanged {
		return nil, shared.ErrTokenObtained
	}

	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	c.exchanged = true
	return &Session{client: c, token: token}, nil
}

// Session is the authenticated stage of the catalog pipeline. It holds the
// bearer token for exactly one playlist creation run and must not be reused
// across runs.
type Session struct {
	client *Client
	token  *oauth2.Token
}

// doRequest performs an authenticated JSON request against the Web API,
// decoding the response into result when result is non-nil. Non-2xx statuses
// come back as [shared.CatalogError] with the upstream body attached.
func (s *Session) doRequest(ctx context.Context, method, endpoint string, payload, result any) error {
	if err := s.client.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &shared.CatalogError{Status: resp.StatusCode, Body: string(raw)}
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUserID resolves the acting user's Spotify ID.
func (s *Session) CurrentUserID(ctx context.Context) (string, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// CreatePlaylist creates an empty playlist owned by userID.
func (s *Session) CreatePlaylist(ctx context.Context, userID, name, description string, public, collaborative bool) (*PlaylistCreation, error) {
	payload := map[string]any{
		"name":          name,
		"description":   description,
		"public":        public,
		"collaborative": collaborative,
	}

	var created struct {
		ID           string `json:"id"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, payload, &created); err != nil {
		return nil, err
	}

	return &PlaylistCreation{ID: created.ID, ExternalURL: created.ExternalURLs.Spotify}, nil
}

// AddTracks appends trackIDs to the playlist in order, in batches of at most
// [TrackBatchLimit] URIs per call, order preserved across batch boundaries.
// An empty trackIDs makes no calls. A failed batch aborts the remaining ones
// with no rollback of batches already appended.
func (s *Session) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for start := 0; start < len(trackIDs); start += TrackBatchLimit {
		end := min(start+TrackBatchLimit, len(trackIDs))

		uris := make([]string, 0, end-start)
		for _, id := range trackIDs[start:end] {
			uris = append(uris, "spotify:track:"+id)
		}

		if err := s.doRequest(ctx, http.MethodPost, endpoint, map[string]any{"uris": uris}, nil); err != nil {
			return err
		}
	}

	return nil
}
