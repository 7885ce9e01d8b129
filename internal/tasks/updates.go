package tasks

import (
	"fmt"

	"github.com/desertthunder/festify/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolvingArtists Phase = iota
	ImportPoster
	CreatePlaylist
)

func (p Phase) String() string {
	switch p {
	case ResolvingArtists:
		return "resolve_artists"
	case ImportPoster:
		return "import_poster"
	case CreatePlaylist:
		return "create_playlist"
	default:
		return ""
	}
}

// Send delivers update without blocking. A nil channel discards it.
func Send(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func resolvingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvingArtists,
		Total:   total,
		Message: fmt.Sprintf("Searching for %d artists...", total),
	}
}

func resolvedUpdate(step, total int, query string, artist models.ArtistCandidate) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvingArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s → %s", step, total, query, artist.Name),
		Data:    artist,
	}
}

func resolveFailedUpdate(step, total int, query string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvingArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, query, err),
	}
}

// PosterUpdate reports the artists imported from a poster.
func PosterUpdate(filename string, artists int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportPoster,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Imported %d artists from %s", artists, filename),
	}
}

// CreatingUpdate reports that a request is being submitted.
func CreatingUpdate(req models.PlaylistRequest) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Creating %q with %d artists...", req.Name, len(req.Entries)),
		Data:    req,
	}
}
