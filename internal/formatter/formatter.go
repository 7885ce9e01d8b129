// package formatter renders playlist history and requests as CSV, Markdown, JSON or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/shared"
)

const dateLayout = "2006-01-02 15:04"

// Format names accepted by [FormatHistory].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// FormatHistory renders records in the named format. "md" is accepted for markdown.
func FormatHistory(records []*models.HistoryRecord, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return HistoryToText(records)
	case FormatCSV:
		return HistoryToCSV(records)
	case FormatMarkdown, "md":
		return HistoryToMarkdown(records)
	case FormatJSON:
		return HistoryToJSON(records)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (use text, csv, markdown or json)", shared.ErrInvalidFlag, format)
	}
}

// HistoryToJSON renders records as an indented JSON array, empty when there are none.
func HistoryToJSON(records []*models.HistoryRecord) ([]byte, error) {
	if records == nil {
		records = []*models.HistoryRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return append(data, '\n'), nil
}

// HistoryToCSV converts records to CSV with columns: Sequence, Name, URL, Tracks, Requested, Artists, Created
func HistoryToCSV(records []*models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Name", "URL", "Tracks", "Requested", "Artists", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Sequence()),
			r.Name,
			r.URL,
			strconv.Itoa(r.TrackCount),
			r.RequestedCount.String(),
			ArtistSummary(r.Artists),
			r.CreatedAt().UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToMarkdown converts records to a Markdown table followed by each playlist's artists
func HistoryToMarkdown(records []*models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Playlist History\n\n")
	if len(records) == 0 {
		buf.WriteString("_No playlists created yet._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Name | Tracks | Artists | Created |\n")
	buf.WriteString("|---|------|--------|---------|---------|\n")
	for _, r := range records {
		fmt.Fprintf(&buf, "| %d | [%s](%s) | %d | %d | %s |\n",
			r.Sequence(), escapeCell(r.Name), r.URL, r.TrackCount, len(r.Artists), r.CreatedAt().Local().Format(dateLayout))
	}

	for _, r := range records {
		fmt.Fprintf(&buf, "\n## %s\n\n", r.Name)
		for i, a := range r.Artists {
			fmt.Fprintf(&buf, "%d. %s (%s)\n", i+1, a.Name, countLabel(a.TrackCount))
		}
	}

	return buf.Bytes(), nil
}

// HistoryToText converts records to plain text, one block per playlist
func HistoryToText(records []*models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer

	if len(records) == 0 {
		buf.WriteString("No playlists created yet.\n")
		return buf.Bytes(), nil
	}

	for i, r := range records {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "#%d %s\n", r.Sequence(), r.Name)
		fmt.Fprintf(&buf, "  URL: %s\n", r.URL)
		fmt.Fprintf(&buf, "  Tracks: %d\n", r.TrackCount)
		fmt.Fprintf(&buf, "  Created: %s\n", r.CreatedAt().Local().Format(dateLayout))
		fmt.Fprintf(&buf, "  Artists: %s\n", ArtistSummary(r.Artists))
		fmt.Fprintf(&buf, "  ID: %s\n", r.ID())
	}

	return buf.Bytes(), nil
}

// RequestToText describes a playlist request before it is sent
func RequestToText(req models.PlaylistRequest) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", req.Name)
	fmt.Fprintf(&buf, "Default tracks per artist: %s\n", countLabel(req.TrackCount))
	fmt.Fprintf(&buf, "Artists: %d\n\n", len(req.Entries))

	for i, e := range req.Entries {
		id := ""
		if e.Artist.ID != "" {
			id = fmt.Sprintf(" [%s]", e.Artist.ID)
		}
		fmt.Fprintf(&buf, "%d. %s%s - %s\n", i+1, e.Artist.Name, id, countLabel(e.TrackCount))
	}

	return buf.Bytes(), nil
}

// ArtistSummary joins artist names with their requested counts, e.g. "Daft Punk (10), Justice (all)"
func ArtistSummary(artists []models.HistoryArtist) string {
	parts := make([]string, len(artists))
	for i, a := range artists {
		parts[i] = fmt.Sprintf("%s (%s)", a.Name, shortCount(a.TrackCount))
	}
	return strings.Join(parts, ", ")
}

// WriteHistoryExport renders records in format and writes them to path, creating parent directories.
func WriteHistoryExport(records []*models.HistoryRecord, format, path string) (string, error) {
	data, err := FormatHistory(records, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func countLabel(c models.TrackCount) string {
	switch {
	case c == models.Discography:
		return "full discography"
	case c == 1:
		return "1 track"
	case c.IsSet():
		return fmt.Sprintf("%d tracks", c)
	default:
		return fmt.Sprintf("%d tracks", models.DefaultTrackCount)
	}
}

func shortCount(c models.TrackCount) string {
	if c == models.Discography {
		return "all"
	}
	return strconv.Itoa(int(c))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
