package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/festify/internal/formatter"
	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/shared"
	"github.com/desertthunder/festify/internal/tasks"
	"github.com/desertthunder/festify/internal/workflow"
	"github.com/urfave/cli/v3"
)

// countOverride is one --count NAME=N flag.
type countOverride struct {
	name  string
	count models.TrackCount
}

// Search prints ranked catalog results for a query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	_, resolver := r.newWorkflow(nil)
	results, err := resolver.Search(ctx, query)
	if err != nil {
		return err
	}

	if limit := int(cmd.Int("limit")); limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if cmd.Bool("json") {
		if results == nil {
			results = []models.ArtistCandidate{}
		}
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if len(results) == 0 {
		return r.writePlain("No artists found for %q\n", query)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	for i, a := range results {
		r.writePlain("%2d. %s%s\n", i+1, a.Name, genreSuffix(a.Genres))
	}
	return nil
}

// Scan prints the artists read off a poster, deduplicated as they would be imported.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("poster"))
	if path == "" {
		return fmt.Errorf("%w: poster file", shared.ErrMissingArgument)
	}

	poster, err := models.ReadPoster(path)
	if err != nil {
		return err
	}

	_, resolver := r.newWorkflow(nil)
	candidates, err := resolver.Scan(ctx, poster)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidates, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%d artists on %s", len(candidates), poster.Filename))
	for i, c := range candidates {
		r.writePlain("%2d. %s\n", i+1, c.Name)
	}
	return nil
}

// Create assembles a playlist from --artist and --poster, applies the count flags and submits it.
//
// --tracks stages a lone artist with that count; with several artists it is applied as the global preset.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	queries := nonBlank(cmd.StringSlice("artist"))
	posterPath := strings.TrimSpace(cmd.String("poster"))
	if len(queries) == 0 && posterPath == "" {
		return fmt.Errorf("%w: --artist or --poster", shared.ErrMissingArgument)
	}

	tracks, err := parseTracks(cmd.String("tracks"))
	if err != nil {
		return err
	}
	overrides, err := parseCounts(cmd.StringSlice("count"))
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	var recorder workflow.Recorder
	if !dryRun {
		recorder = r.recorder()
	}
	w, resolver := r.newWorkflow(recorder)

	progressCh, stop := r.reportProgress(cmd.Bool("json"))
	defer stop()

	if posterPath != "" {
		poster, err := models.ReadPoster(posterPath)
		if err != nil {
			return err
		}
		if err := w.Scan(ctx, poster); err != nil {
			return err
		}
		tasks.Send(progressCh, tasks.PosterUpdate(poster.Filename, len(w.Snapshot().Items)))
	}

	candidates, err := tasks.ResolveArtists(ctx, progressCh, resolver, queries, tasks.ResolveOpts{
		NumWorkers: int(cmd.Int("workers")),
	})
	if err != nil {
		return err
	}

	single := posterPath == "" && len(candidates) == 1
	for _, c := range candidates {
		count := r.stageCount(tracks)
		if !single {
			count = 0
		}
		if err := w.Stage(c, count); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		if err := w.Commit(); err != nil {
			return err
		}
	}

	if tracks.IsSet() && !single {
		if err := w.ApplyGlobal(tracks); err != nil {
			return err
		}
	}

	if err := r.applyEdits(w, overrides, nonBlank(cmd.StringSlice("exclude"))); err != nil {
		return err
	}

	if name := cmd.String("name"); name != "" {
		if err := w.SetPlaylistName(name); err != nil {
			return err
		}
	}

	if dryRun {
		stop()
		req, err := w.Request()
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(req, cmd.Bool("pretty"))
		}
		text, err := formatter.RequestToText(req)
		if err != nil {
			return err
		}
		return r.writePlain("%s", text)
	}

	if req, err := w.Request(); err == nil {
		tasks.Send(progressCh, tasks.CreatingUpdate(req))
	}
	res, err := w.Submit(ctx)
	stop()
	if err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := r.open(res.URL); err != nil {
			r.logger.Warn("failed to open playlist", "url", res.URL, "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(res, cmd.Bool("pretty"))
	}

	r.writePlain("✓ Created %q with %d tracks\n", res.Name, res.TrackCount)
	r.writePlain("%s\n", res.URL)
	return nil
}

// reportProgress prints task updates until stop is called; stop may be called more than once.
// Quiet runs get a nil channel.
func (r *Runner) reportProgress(quiet bool) (chan<- tasks.ProgressUpdate, func()) {
	if quiet {
		return nil, func() {}
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ImportPoster:
				r.writePlain("🖼  %s\n", update.Message)
			case tasks.ResolvingArtists:
				if update.Step == 0 {
					r.writePlain("🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.CreatePlaylist:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	var once sync.Once
	return progressCh, func() {
		once.Do(func() {
			close(progressCh)
			<-done
		})
	}
}

// applyEdits applies --count overrides and --exclude toggles by artist name.
func (r *Runner) applyEdits(w *workflow.Workflow, overrides []countOverride, excludes []string) error {
	items := w.Snapshot().Items

	for _, o := range overrides {
		item, ok := findItem(items, o.name)
		if !ok {
			return fmt.Errorf("%w: --count %s: artist is not in the playlist", shared.ErrInvalidArgument, o.name)
		}
		if err := w.SetTrackCount(item.Key(), o.count); err != nil {
			return fmt.Errorf("%s: %w", item.Artist.Name, err)
		}
	}

	for _, name := range excludes {
		item, ok := findItem(items, name)
		if !ok {
			return fmt.Errorf("%w: --exclude %s: artist is not in the playlist", shared.ErrInvalidArgument, name)
		}
		if item.Enabled {
			if err := w.Toggle(item.Key()); err != nil {
				return err
			}
		}
	}
	return nil
}

// stageCount is the count a lone artist is staged with: --tracks, else the configured default when it is a preset.
func (r *Runner) stageCount(tracks models.TrackCount) models.TrackCount {
	if tracks.IsSet() {
		return tracks
	}
	if c := models.TrackCount(r.config.Playlist.DefaultTrackCount); c.IsPreset() {
		return c
	}
	return 0
}

func findItem(items []workflow.Item, name string) (workflow.Item, bool) {
	want := shared.NormalizeName(name)
	for _, item := range items {
		if shared.NormalizeName(item.Artist.Name) == want {
			return item, true
		}
	}
	return workflow.Item{}, false
}

func parseTracks(s string) (models.TrackCount, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	count, err := models.ParseTrackCount(s)
	if err != nil {
		return 0, fmt.Errorf("%w: --tracks: %v", shared.ErrInvalidFlag, err)
	}
	return count, nil
}

// parseCounts parses NAME=N flags. The last '=' separates the count so names may contain one.
func parseCounts(values []string) ([]countOverride, error) {
	overrides := make([]countOverride, 0, len(values))
	for _, v := range values {
		i := strings.LastIndex(v, "=")
		if i <= 0 {
			return nil, fmt.Errorf("%w: --count %q must be NAME=N", shared.ErrInvalidFlag, v)
		}

		name := strings.TrimSpace(v[:i])
		count, err := models.ParseTrackCount(v[i+1:])
		if name == "" || err != nil {
			return nil, fmt.Errorf("%w: --count %q must be NAME=N", shared.ErrInvalidFlag, v)
		}
		overrides = append(overrides, countOverride{name: name, count: count})
	}
	return overrides, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func genreSuffix(genres []string) string {
	if len(genres) == 0 {
		return ""
	}
	return " (" + strings.Join(genres, ", ") + ")"
}
