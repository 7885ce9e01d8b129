package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// HistoryArtist is one requested artist of a created playlist.
type HistoryArtist struct {
	Position   int        `json:"position"`
	ArtistID   string     `json:"artist_id,omitempty"`
	Name       string     `json:"name"`
	TrackCount TrackCount `json:"track_count"`
}

// HistoryRecord is a playlist created through festify, persisted locally.
type HistoryRecord struct {
	id             string
	sequence       int
	createdAt      time.Time
	deletedAt      *time.Time
	Name           string          `json:"name"`
	URL            string          `json:"url"`
	TrackCount     int             `json:"track_count"`
	RequestedCount TrackCount      `json:"requested_count"`
	Artists        []HistoryArtist `json:"artists"`
}

// NewHistoryRecord builds a record from a submitted request and the API's result.
func NewHistoryRecord(req PlaylistRequest, res PlaylistResult) *HistoryRecord {
	name := res.Name
	if name == "" {
		name = req.Name
	}

	artists := make([]HistoryArtist, len(req.Entries))
	for i, e := range req.Entries {
		artists[i] = HistoryArtist{Position: i, ArtistID: e.Artist.ID, Name: e.Artist.Name, TrackCount: e.TrackCount}
	}

	return &HistoryRecord{
		createdAt:      time.Now().UTC(),
		Name:           name,
		URL:            res.URL,
		TrackCount:     res.TrackCount,
		RequestedCount: req.TrackCount,
		Artists:        artists,
	}
}

// RestoreHistoryRecord rebuilds a record loaded from storage.
func RestoreHistoryRecord(id string, sequence int, createdAt time.Time, deletedAt *time.Time) *HistoryRecord {
	return &HistoryRecord{id: id, sequence: sequence, createdAt: createdAt, deletedAt: deletedAt}
}

func (r *HistoryRecord) ID() string            { return r.id }
func (r *HistoryRecord) Sequence() int         { return r.sequence }
func (r *HistoryRecord) CreatedAt() time.Time  { return r.createdAt }
func (r *HistoryRecord) DeletedAt() *time.Time { return r.deletedAt }
func (r *HistoryRecord) SetID(id string)       { r.id = id }
func (r *HistoryRecord) SetSequence(seq int)   { r.sequence = seq }

// Validate checks that the record can be stored.
func (r *HistoryRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if r.URL == "" {
		return fmt.Errorf("url is required")
	}
	if r.TrackCount < 0 {
		return fmt.Errorf("track count must not be negative")
	}
	return nil
}

var _ Model = (*HistoryRecord)(nil)

// MarshalJSON includes the storage identity alongside the exported fields.
func (r *HistoryRecord) MarshalJSON() ([]byte, error) {
	type plain HistoryRecord
	return json.Marshal(struct {
		ID        string    `json:"id"`
		Sequence  int       `json:"sequence"`
		CreatedAt time.Time `json:"created_at"`
		*plain
	}{r.id, r.sequence, r.createdAt, (*plain)(r)})
}
