// Package services implements the Spotify Web API client behind the playlist
// creation pipeline.
//
// # Two-stage client
//
// The client is split along the authentication boundary instead of carrying
// hidden mutable auth state:
//
//   - [Client] is the unauthenticated stage. It holds the confidential-client
//     OAuth2 configuration and can do exactly one thing with the catalog:
//     trade an authorization code for a bearer token via [Client.Exchange].
//   - [Session] is the authenticated stage returned by Exchange. The bearer
//     token exists only here, so using it before the exchange is
//     unrepresentable; Exchange itself refuses to run twice on one Client.
//
// A Session belongs to a single creation run and is discarded afterward.
//
// # Failure contract
//
// Every non-success catalog response is returned as [shared.CatalogError]
// carrying the upstream status and body. Nothing is retried: a failed batch
// inside [Session.AddTracks] aborts the remaining batches and whatever was
// already appended stays on the playlist.
package services
