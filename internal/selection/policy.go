package selection

import (
	"fmt"

	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/shared"
)

// ResolveCount returns the number of tracks to request for entry.
//
// global is the last applied preset, or zero when none was applied.
func ResolveCount(entry models.SelectionEntry, global models.TrackCount) models.TrackCount {
	switch {
	case entry.TrackCount.Valid():
		return entry.TrackCount
	case global.Valid():
		return global
	default:
		return models.DefaultTrackCount
	}
}

// ValidatePreset checks a global preset. Discography is only allowed outside bulk application.
func ValidatePreset(preset models.TrackCount, bulk bool) error {
	switch {
	case preset.IsPreset():
		return nil
	case preset == models.Discography && bulk:
		return shared.ErrDiscographyBulk
	case preset == models.Discography:
		return nil
	default:
		return fmt.Errorf("%w: %v (choose 5, 10 or 20)", shared.ErrInvalidPreset, preset)
	}
}

// ValidateCount checks an individual entry count.
func ValidateCount(count models.TrackCount, bulk bool) error {
	switch {
	case count == models.Discography && bulk:
		return shared.ErrDiscographyBulk
	case count.Valid():
		return nil
	default:
		return fmt.Errorf("%w: %d", shared.ErrInvalidTrackCount, count)
	}
}
