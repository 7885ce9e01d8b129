// Festify API implementation of [Catalog], [Recognizer] and [PlaylistCreator]
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/shared"
)

const (
	searchPath         = "/search"
	scanPosterPath     = "/scan-poster"
	createPlaylistPath = "/playlist/create"
	healthPath         = "/health"
	posterField        = "file"
)

type searchResponse struct {
	Artists []models.ArtistCandidate `json:"artists"`
}

type scanResponse struct {
	Artists []any `json:"artists"`
}

// CreatePlaylistBody is the wire shape of POST /playlist/create.
type CreatePlaylistBody struct {
	Artists         []models.ArtistRef `json:"artists"`
	TrackCount      int                `json:"track_count"`
	PerArtistCounts map[string]int     `json:"per_artist_counts,omitempty"`
	PlaylistName    string             `json:"playlist_name"`
}

// FestifyService talks to the Festify API through an [APIService].
type FestifyService struct {
	api *APIService
}

// NewFestifyService creates a FestifyService using api for transport.
func NewFestifyService(api *APIService) *FestifyService {
	return &FestifyService{api: api}
}

// SearchArtists calls GET /search?q=.
func (s *FestifyService) SearchArtists(ctx context.Context, query string) ([]models.ArtistCandidate, error) {
	resp, err := s.api.Get(ctx, searchPath+"?"+url.Values{"q": {query}}.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: search returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var body searchResponse
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	artists := make([]models.ArtistCandidate, 0, len(body.Artists))
	for _, a := range body.Artists {
		if strings.TrimSpace(a.Name) == "" {
			continue
		}
		artists = append(artists, a)
	}
	return artists, nil
}

// ScanPoster uploads the poster to POST /scan-poster as the multipart field "file".
//
// Non-string and blank entries in the response are dropped and names are trimmed.
func (s *FestifyService) ScanPoster(ctx context.Context, poster *models.Poster) ([]string, error) {
	resp, err := s.api.PostMultipart(ctx, scanPosterPath, posterField, poster.Filename, poster.ContentType, poster.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: scan returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var body scanResponse
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	names := make([]string, 0, len(body.Artists))
	for _, raw := range body.Artists {
		name, ok := raw.(string)
		if !ok {
			continue
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// CreatePlaylist calls POST /playlist/create.
//
// Per-artist counts are keyed by artist name; discography is sent as 0.
func (s *FestifyService) CreatePlaylist(ctx context.Context, req models.PlaylistRequest) (*models.PlaylistResult, error) {
	data, err := json.Marshal(NewCreatePlaylistBody(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.api.Post(ctx, createPlaylistPath, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: playlist/create returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result models.PlaylistResult
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if result.URL == "" {
		return nil, fmt.Errorf("%w: playlist/create response has no url", shared.ErrAPIRequest)
	}
	return &result, nil
}

// Health calls GET /health.
func (s *FestifyService) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := s.api.Get(ctx, healthPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	status := &HealthStatus{Status: "unknown"}
	if resp.IsJSON {
		if err := resp.Decode(status); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
		}
	}
	return status, nil
}

// NewCreatePlaylistBody converts req to the wire body of POST /playlist/create.
func NewCreatePlaylistBody(req models.PlaylistRequest) CreatePlaylistBody {
	body := CreatePlaylistBody{
		Artists:         make([]models.ArtistRef, len(req.Entries)),
		TrackCount:      req.TrackCount.Wire(),
		PerArtistCounts: make(map[string]int, len(req.Entries)),
		PlaylistName:    strings.TrimSpace(req.Name),
	}
	if !req.TrackCount.IsSet() {
		body.TrackCount = int(models.DefaultTrackCount)
	}

	for i, e := range req.Entries {
		body.Artists[i] = e.Artist
		body.PerArtistCounts[e.Artist.Name] = e.TrackCount.Wire()
	}
	return body
}
