package models

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/festify/internal/shared"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// ArtistCandidate is an artist identified by discovery but not yet part of a playlist request.
//
// Search results carry every field; poster results carry only Name.
type ArtistCandidate struct {
	ID     string   `json:"id,omitempty"`
	Name   string   `json:"name"`
	Image  string   `json:"image,omitempty"`
	Genres []string `json:"genres,omitempty"`
}

// Key returns the identity used for uniqueness: the catalog ID when present, otherwise the normalized name.
func (c ArtistCandidate) Key() string {
	if c.ID != "" {
		return "id:" + c.ID
	}
	return "name:" + shared.NormalizeName(c.Name)
}

// Clone returns a copy that shares no memory with c.
func (c ArtistCandidate) Clone() ArtistCandidate {
	c.Genres = slices.Clone(c.Genres)
	return c
}

// Ref returns the reference sent to the playlist API.
func (c ArtistCandidate) Ref() ArtistRef {
	return ArtistRef{ID: c.ID, Name: c.Name}
}

// ArtistRef identifies an artist in a [PlaylistRequest].
type ArtistRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// TrackCount is the number of top tracks requested for an artist.
//
// The zero value means unset. [Discography] requests every available track.
type TrackCount int

const (
	Discography       TrackCount = -1
	DefaultTrackCount TrackCount = 10
)

// Presets are the global track count choices offered for every flow.
var Presets = []TrackCount{5, 10, 20}

// IsSet reports whether c holds a value.
func (c TrackCount) IsSet() bool { return c != 0 }

// Valid reports whether c is a positive count or [Discography].
func (c TrackCount) Valid() bool { return c > 0 || c == Discography }

// IsPreset reports whether c is one of [Presets].
func (c TrackCount) IsPreset() bool { return slices.Contains(Presets, c) }

// Wire returns the value sent to the API, where 0 means the whole discography.
func (c TrackCount) Wire() int {
	if c == Discography {
		return 0
	}
	return int(c)
}

func (c TrackCount) String() string {
	switch {
	case c == Discography:
		return "discography"
	case c == 0:
		return "default"
	default:
		return strconv.Itoa(int(c))
	}
}

// ParseTrackCount parses a positive integer or "discography"/"all".
func ParseTrackCount(s string) (TrackCount, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "discography", "all":
		return Discography, nil
	default:
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%w: %q", shared.ErrInvalidTrackCount, s)
		}
		return TrackCount(n), nil
	}
}

// SelectionEntry is a confirmed artist in the cart.
//
// Overridden means the count was set individually since the last global apply.
type SelectionEntry struct {
	Artist     ArtistCandidate `json:"artist"`
	TrackCount TrackCount      `json:"track_count"`
	Enabled    bool            `json:"enabled"`
	Overridden bool            `json:"overridden"`
}

// Key returns the entry's artist identity.
func (e SelectionEntry) Key() string { return e.Artist.Key() }

// Clone returns a deep copy of e.
func (e SelectionEntry) Clone() SelectionEntry {
	e.Artist = e.Artist.Clone()
	return e
}

// RequestEntry is one artist of a [PlaylistRequest] with its resolved count.
type RequestEntry struct {
	Artist     ArtistRef  `json:"artist"`
	TrackCount TrackCount `json:"track_count"`
}

// PlaylistRequest is the creation request derived from the enabled entries of the cart.
type PlaylistRequest struct {
	Name       string         `json:"name"`
	Entries    []RequestEntry `json:"entries"`
	TrackCount TrackCount     `json:"track_count"` // fallback for artists without a per-artist count
}

// Validate checks the submission invariants: a non-blank name and at least one entry.
func (r PlaylistRequest) Validate() error {
	if len(r.Entries) == 0 {
		return shared.ErrNothingSelected
	}
	if strings.TrimSpace(r.Name) == "" {
		return shared.ErrEmptyPlaylistName
	}
	for _, e := range r.Entries {
		if !e.TrackCount.Valid() {
			return fmt.Errorf("%w: %s has %d", shared.ErrInvalidTrackCount, e.Artist.Name, e.TrackCount)
		}
	}
	return nil
}

// PlaylistResult is the response of the playlist API.
//
// TrackCount is the number of tracks actually added, which may be less than requested.
type PlaylistResult struct {
	URL        string `json:"url"`
	Name       string `json:"playlist_name"`
	TrackCount int    `json:"track_count"`
}
