package selection

import (
	"github.com/desertthunder/festify/internal/models"
)

// Cart is the ordered, deduplicated set of confirmed artists.
type Cart struct {
	entries []*models.SelectionEntry
	index   map[string]int
	global  models.TrackCount
	bulk    bool
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add inserts a copy of candidate. It reports false when the artist is already present.
//
// A set count marks the entry as individually overridden; a zero count follows the global preset.
func (c *Cart) Add(candidate models.ArtistCandidate, count models.TrackCount) (bool, error) {
	if count.IsSet() {
		if err := ValidateCount(count, c.bulk); err != nil {
			return false, err
		}
	}

	key := candidate.Key()
	if _, ok := c.index[key]; ok {
		return false, nil
	}

	c.index[key] = len(c.entries)
	c.entries = append(c.entries, &models.SelectionEntry{
		Artist:     candidate.Clone(),
		TrackCount: count,
		Enabled:    true,
		Overridden: count.IsSet(),
	})
	return true, nil
}

// BulkImport adds every new candidate enabled and without an individual count, and switches the cart to bulk mode.
//
// It returns the number of entries inserted.
func (c *Cart) BulkImport(candidates []models.ArtistCandidate) int {
	c.bulk = true
	added := 0
	for _, candidate := range candidates {
		if ok, _ := c.Add(candidate, 0); ok {
			added++
		}
	}

	for _, e := range c.entries {
		if e.TrackCount == models.Discography {
			e.TrackCount = 0
			e.Overridden = false
		}
	}
	return added
}

// Remove deletes the entry with key. Removing an absent key is a no-op.
func (c *Cart) Remove(key string) bool {
	i, ok := c.index[key]
	if !ok {
		return false
	}

	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	delete(c.index, key)
	for j := i; j < len(c.entries); j++ {
		c.index[c.entries[j].Key()] = j
	}
	return true
}

// SetTrackCount sets an individual count and marks the entry overridden. An absent key is a no-op.
func (c *Cart) SetTrackCount(key string, count models.TrackCount) error {
	e := c.lookup(key)
	if e == nil {
		return nil
	}
	if err := ValidateCount(count, c.bulk); err != nil {
		return err
	}

	e.TrackCount = count
	e.Overridden = true
	return nil
}

// Toggle flips whether the entry takes part in the playlist and returns the new state.
func (c *Cart) Toggle(key string) bool {
	e := c.lookup(key)
	if e == nil {
		return false
	}
	e.Enabled = !e.Enabled
	return e.Enabled
}

// SetEnabled sets whether the entry takes part in the playlist. An absent key is a no-op.
func (c *Cart) SetEnabled(key string, enabled bool) {
	if e := c.lookup(key); e != nil {
		e.Enabled = enabled
	}
}

// ApplyGlobal writes preset to every entry not overridden since the previous apply, then clears all override flags.
func (c *Cart) ApplyGlobal(preset models.TrackCount) error {
	if err := ValidatePreset(preset, c.bulk || len(c.entries) > 1); err != nil {
		return err
	}

	for _, e := range c.entries {
		if e.Overridden {
			e.Overridden = false
			continue
		}
		e.TrackCount = preset
	}
	c.global = preset
	return nil
}

// Resolve returns the effective count for key, or zero when absent.
func (c *Cart) Resolve(key string) models.TrackCount {
	e := c.lookup(key)
	if e == nil {
		return 0
	}
	return ResolveCount(*e, c.global)
}

// Global returns the last applied preset and whether one was applied.
func (c *Cart) Global() (models.TrackCount, bool) {
	return c.global, c.global.IsSet()
}

// Fallback returns the request-level count: the last applied preset, else the default.
func (c *Cart) Fallback() models.TrackCount {
	if c.global.Valid() {
		return c.global
	}
	return models.DefaultTrackCount
}

// Bulk reports whether the cart received a poster import.
func (c *Cart) Bulk() bool { return c.bulk }

// Len returns the number of entries.
func (c *Cart) Len() int { return len(c.entries) }

// EnabledLen returns the number of enabled entries.
func (c *Cart) EnabledLen() int {
	n := 0
	for _, e := range c.entries {
		if e.Enabled {
			n++
		}
	}
	return n
}

// Entry returns a copy of the entry with key.
func (c *Cart) Entry(key string) (models.SelectionEntry, bool) {
	e := c.lookup(key)
	if e == nil {
		return models.SelectionEntry{}, false
	}
	return e.Clone(), true
}

// Entries returns copies of all entries in insertion order.
func (c *Cart) Entries() []models.SelectionEntry {
	out := make([]models.SelectionEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Clone()
	}
	return out
}

// Enabled returns copies of the enabled entries in insertion order.
func (c *Cart) Enabled() []models.SelectionEntry {
	var out []models.SelectionEntry
	for _, e := range c.entries {
		if e.Enabled {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Clear empties the cart and forgets the global preset and bulk mode.
func (c *Cart) Clear() {
	c.entries = nil
	c.index = make(map[string]int)
	c.global = 0
	c.bulk = false
}

func (c *Cart) lookup(key string) *models.SelectionEntry {
	i, ok := c.index[key]
	if !ok {
		return nil
	}
	return c.entries[i]
}
