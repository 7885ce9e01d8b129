package workflow

import (
	"slices"
	"strings"

	"github.com/desertthunder/festify/internal/models"
)

// State is the phase of a [Workflow].
type State int

const (
	Idle State = iota
	Searching
	Scanning
	Staged
	Selecting
	Submitting
	Created
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Scanning:
		return "scanning"
	case Staged:
		return "staged"
	case Selecting:
		return "selecting"
	case Submitting:
		return "submitting"
	case Created:
		return "created"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Discovering reports whether a search or scan is in flight.
func (s State) Discovering() bool { return s == Searching || s == Scanning }

// Reason tags a [Failure].
type Reason int

const (
	SearchFailed Reason = iota + 1
	InvalidUpload
	NoArtistsFound
	ScanFailed
	SubmitFailed
)

func (r Reason) String() string {
	switch r {
	case SearchFailed:
		return "search_failed"
	case InvalidUpload:
		return "invalid_upload"
	case NoArtistsFound:
		return "no_artists_found"
	case ScanFailed:
		return "scan_failed"
	case SubmitFailed:
		return "submit_failed"
	default:
		return ""
	}
}

const (
	msgSearchFailed   = "Search failed. Try again."
	msgNoArtistsFound = "Couldn't find any artist names in that image. Try a clearer photo."
	msgScanFailed     = "Scan failed. Make sure the image is a readable festival poster."
	msgSubmitFailed   = "Could not create playlist. Try again."
	msgSelectArtist   = "Select at least one artist."
	msgEnterName      = "Enter a playlist name."
)

// Failure describes why the workflow entered [Failed] and where it returns to.
type Failure struct {
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
	Resume  State  `json:"resume"`
	Err     error  `json:"-"`
}

// Candidate is a staged search result with its pending track count.
type Candidate struct {
	Artist     models.ArtistCandidate `json:"artist"`
	TrackCount models.TrackCount      `json:"track_count"`
}

// Item is a cart entry with the count that would be requested for it.
type Item struct {
	models.SelectionEntry
	Effective models.TrackCount `json:"effective"`
}

// Snapshot is an immutable copy of the workflow state.
type Snapshot struct {
	State        State                    `json:"state"`
	Query        string                   `json:"query"`
	Results      []models.ArtistCandidate `json:"results"`
	Staged       *Candidate               `json:"staged,omitempty"`
	Items        []Item                   `json:"items"`
	Global       models.TrackCount        `json:"global"`
	Bulk         bool                     `json:"bulk"`
	PlaylistName string                   `json:"playlist_name"`
	Validation   string                   `json:"validation,omitempty"`
	Failure      *Failure                 `json:"failure,omitempty"`
	Created      *models.PlaylistResult   `json:"created,omitempty"`
	Generation   uint64                   `json:"generation"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	if s.Results != nil {
		results := make([]models.ArtistCandidate, len(s.Results))
		for i, r := range s.Results {
			results[i] = r.Clone()
		}
		s.Results = results
	}
	if s.Items != nil {
		items := slices.Clone(s.Items)
		for i := range items {
			items[i].SelectionEntry = items[i].SelectionEntry.Clone()
		}
		s.Items = items
	}
	if s.Staged != nil {
		c := *s.Staged
		c.Artist = c.Artist.Clone()
		s.Staged = &c
	}
	if s.Failure != nil {
		f := *s.Failure
		s.Failure = &f
	}
	if s.Created != nil {
		c := *s.Created
		s.Created = &c
	}
	return s
}

// EnabledCount returns the number of items that take part in the playlist.
func (s Snapshot) EnabledCount() int {
	n := 0
	for _, it := range s.Items {
		if it.Enabled {
			n++
		}
	}
	return n
}

// CanSubmit reports whether a submission would pass gating.
func (s Snapshot) CanSubmit() bool {
	return s.State != Submitting && s.State != Created && s.EnabledCount() > 0 && strings.TrimSpace(s.PlaylistName) != ""
}
