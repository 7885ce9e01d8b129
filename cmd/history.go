package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/festify/internal/formatter"
	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists created playlists, newest first, or exports them with --output.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	outputPath := cmd.String("output")

	repo, err := r.historyRepository()
	if err != nil {
		return err
	}

	records, err := repo.List(map[string]any{
		"name":  cmd.String("search"),
		"limit": int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	if outputPath != "" {
		written, err := formatter.WriteHistoryExport(records, format, outputPath)
		if err != nil {
			return err
		}
		r.logger.Info("history exported", "path", written, "playlists", len(records))
		return r.writePlain("Exported %d playlists to %s\n", len(records), written)
	}

	if format == formatter.FormatJSON {
		if records == nil {
			records = []*models.HistoryRecord{}
		}
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(records) == 0 && (format == "" || format == formatter.FormatText) {
		return r.writePlain("No playlists yet. Create one with 'festify create' or 'festify tui'.\n")
	}

	data, err := formatter.FormatHistory(records, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// HistoryDelete removes a playlist from history. It does not delete the playlist on Spotify.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	record, err := r.findRecord(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := r.history.Delete(record.ID()); err != nil {
		return err
	}

	r.logger.Info("history entry deleted", "id", record.ID(), "name", record.Name)
	return r.writePlain("Deleted #%d %s\n", record.Sequence(), record.Name)
}

// HistoryOpen opens a playlist from history in the browser.
func (r *Runner) HistoryOpen(ctx context.Context, cmd *cli.Command) error {
	record, err := r.findRecord(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	return r.open(record.URL)
}

// findRecord looks up a record by sequence number ("3" or "#3") or by ID.
func (r *Runner) findRecord(ref string) (*models.HistoryRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	repo, err := r.historyRepository()
	if err != nil {
		return nil, err
	}

	if seq, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		return repo.GetBySequence(seq)
	}
	return repo.Get(ref)
}
