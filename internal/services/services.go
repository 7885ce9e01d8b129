// package services defines the clients used to reach the Festify API
//
// Catalog search, poster recognition, playlist creation
package services

import (
	"context"

	"github.com/desertthunder/festify/internal/models"
)

// Catalog searches the music catalog for artists.
type Catalog interface {
	// SearchArtists returns ranked candidates for query.
	SearchArtists(ctx context.Context, query string) ([]models.ArtistCandidate, error)
}

// Recognizer extracts artist names from a poster image.
type Recognizer interface {
	// ScanPoster returns the raw names read off the poster, possibly none.
	ScanPoster(ctx context.Context, poster *models.Poster) ([]string, error)
}

// PlaylistCreator creates playlists on the user's streaming account.
type PlaylistCreator interface {
	// CreatePlaylist submits req once. The operation is not idempotent on the remote side.
	CreatePlaylist(ctx context.Context, req models.PlaylistRequest) (*models.PlaylistResult, error)
}

// HealthChecker reports whether the API is reachable.
type HealthChecker interface {
	Health(ctx context.Context) (*HealthStatus, error)
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}

var (
	_ Catalog         = (*FestifyService)(nil)
	_ Recognizer      = (*FestifyService)(nil)
	_ PlaylistCreator = (*FestifyService)(nil)
	_ HealthChecker   = (*FestifyService)(nil)
)
