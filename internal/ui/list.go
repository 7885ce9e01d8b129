package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/workflow"
)

var (
	_ list.Item = candidateItem{}
	_ list.Item = entryItem{}
)

// candidateItem wraps [models.ArtistCandidate] to implement [list.Item].
type candidateItem struct {
	artist models.ArtistCandidate
}

func (i candidateItem) FilterValue() string { return i.artist.Name }
func (i candidateItem) Title() string       { return i.artist.Name }
func (i candidateItem) Description() string {
	if len(i.artist.Genres) == 0 {
		return "no genres listed"
	}
	return strings.Join(i.artist.Genres, " • ")
}

// entryItem wraps [workflow.Item] to implement [list.Item].
type entryItem struct {
	item workflow.Item
}

func (i entryItem) FilterValue() string { return i.item.Artist.Name }
func (i entryItem) Title() string {
	mark := "[x]"
	if !i.item.Enabled {
		mark = "[ ]"
	}
	return fmt.Sprintf("%s %s", mark, i.item.Artist.Name)
}
func (i entryItem) Description() string {
	desc := countLabel(i.item.Effective)
	if i.item.Overridden {
		desc += " • custom"
	}
	return desc
}

func countLabel(c models.TrackCount) string {
	switch {
	case c == models.Discography:
		return "full discography"
	case !c.IsSet():
		return fmt.Sprintf("%d tracks", models.DefaultTrackCount)
	}
	return fmt.Sprintf("%d tracks", c)
}

func candidateItems(results []models.ArtistCandidate) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = candidateItem{artist: r}
	}
	return items
}

func entryItems(entries []workflow.Item) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{item: e}
	}
	return items
}
