package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/repositories"
	"github.com/desertthunder/festify/internal/services"
	"github.com/desertthunder/festify/internal/shared"
	tu "github.com/desertthunder/festify/internal/testing"
)

type fakeHealth struct {
	status string
	err    error
}

func (f *fakeHealth) Health(ctx context.Context) (*services.HealthStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.HealthStatus{Status: f.status}, nil
}

// env is a runner wired to fakes and an in-memory history database.
type env struct {
	runner     *Runner
	out        *bytes.Buffer
	catalog    *tu.FakeCatalog
	recognizer *tu.FakeRecognizer
	creator    *tu.FakePlaylistCreator
	health     *fakeHealth
	history    *repositories.HistoryRepository
	opened     []string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	e := &env{
		out: &bytes.Buffer{},
		catalog: &tu.FakeCatalog{Results: map[string][]models.ArtistCandidate{
			"Daft Punk": {{ID: "dp", Name: "Daft Punk", Genres: []string{"french house"}}, {ID: "tdp", Name: "Thomas Bangalter"}},
			"Justice":   {{ID: "jc", Name: "Justice"}},
		}},
		recognizer: &tu.FakeRecognizer{},
		creator: &tu.FakePlaylistCreator{Result: &models.PlaylistResult{
			URL: "https://open.spotify.com/playlist/fest", Name: "Fest 2025", TrackCount: 25,
		}},
		health:  &fakeHealth{status: "ok"},
		history: repositories.NewHistoryRepository(db),
	}

	e.runner = NewRunner(RunnerOpts{
		Config:     shared.DefaultConfig(),
		Catalog:    e.catalog,
		Recognizer: e.recognizer,
		Creator:    e.creator,
		Health:     e.health,
		History:    e.history,
		Logger:     shared.NewLogger(io.Discard),
		Output:     e.out,
		Open: func(u string) error {
			e.opened = append(e.opened, u)
			return nil
		},
	})
	return e
}

func (e *env) run(args ...string) error {
	return e.runner.app().Run(context.Background(), append([]string{"festify"}, args...))
}

func (e *env) lastRequest(t *testing.T) models.PlaylistRequest {
	t.Helper()
	req, ok := e.creator.LastRequest()
	if !ok {
		t.Fatal("expected a create call")
	}
	return req
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &tu.FakeCatalog{}
			creator := &tu.FakePlaylistCreator{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				Catalog:    catalog,
				Creator:    creator,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.creator != creator {
				t.Error("expected creator to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil opener uses browser", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.open == nil {
				t.Error("expected default browser opener")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"search", "scan", "create", "history", "status", "setup", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("prepare", func(t *testing.T) {
		t.Run("builds API clients from config", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status":"healthy"}`))
			}))
			defer srv.Close()

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Config: shared.DefaultConfig(),
				Logger: shared.NewLogger(io.Discard),
				Output: output,
			})

			err := runner.app().Run(context.Background(), []string{"festify", "--api-url", srv.URL, "status"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !runner.ownsAPI || runner.api.BaseURL() != srv.URL {
				t.Errorf("expected API client for %s", srv.URL)
			}
			if !strings.Contains(output.String(), "healthy") {
				t.Errorf("expected health status in output, got %q", output.String())
			}
		})

		t.Run("rejects invalid config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.API.BaseURL = "not a url"
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})

			err := runner.app().Run(context.Background(), []string{"festify", "status"})
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("keeps injected clients", func(t *testing.T) {
			health := &fakeHealth{status: "ok"}
			catalog := &tu.FakeCatalog{}
			runner := NewRunner(RunnerOpts{
				Config:  shared.DefaultConfig(),
				Logger:  shared.NewLogger(io.Discard),
				Output:  &bytes.Buffer{},
				Health:  health,
				Catalog: catalog,
			})

			if err := runner.app().Run(context.Background(), []string{"festify", "status"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.health != services.HealthChecker(health) || runner.catalog != services.Catalog(catalog) {
				t.Fatal("expected injected clients kept")
			}
			built := runner.festify
			if built == nil || runner.creator != services.PlaylistCreator(built) || runner.recognizer != services.Recognizer(built) {
				t.Fatal("expected missing clients served by the API")
			}

			runner.connect(context.Background())
			if runner.health != services.HealthChecker(health) || runner.catalog != services.Catalog(catalog) {
				t.Error("expected injected clients kept after reconnect")
			}
			if runner.festify == built || runner.creator != services.PlaylistCreator(runner.festify) {
				t.Error("expected reconnect to replace the clients it built")
			}
		})

		t.Run("loads config file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			config := shared.DefaultConfig()
			config.Playlist.DefaultName = "From File"
			if err := shared.SaveConfig(path, config); err != nil {
				t.Fatalf("failed to save config: %v", err)
			}

			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}, Health: &fakeHealth{status: "ok"}})
			if err := runner.app().Run(context.Background(), []string{"festify", "--config", path, "status"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.config.Playlist.DefaultName != "From File" {
				t.Errorf("expected config loaded from file, got %q", runner.config.Playlist.DefaultName)
			}
		})
	})
}

func TestSearchCommand(t *testing.T) {
	t.Run("prints ranked results", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("search", "Daft Punk"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := e.out.String()
		if !strings.Contains(out, " 1. Daft Punk (french house)") || !strings.Contains(out, " 2. Thomas Bangalter") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("json with limit", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("search", "--json", "--limit", "1", "Daft Punk"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var results []models.ArtistCandidate
		if err := json.Unmarshal(e.out.Bytes(), &results); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if len(results) != 1 || results[0].ID != "dp" {
			t.Errorf("unexpected results %+v", results)
		}
	})

	t.Run("no results", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("search", "Nobody"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(e.out.String(), "No artists found") {
			t.Errorf("unexpected output %q", e.out.String())
		}
	})

	t.Run("missing query", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("catalog failure", func(t *testing.T) {
		e := newEnv(t)
		e.catalog.Err = errors.New("boom")
		if err := e.run("search", "Daft Punk"); !errors.Is(err, shared.ErrSearchFailed) {
			t.Errorf("expected ErrSearchFailed, got %v", err)
		}
	})
}

func writePoster(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lineup.png")
	if err := os.WriteFile(path, tu.PNG(t), 0644); err != nil {
		t.Fatalf("failed to write poster: %v", err)
	}
	return path
}

func TestScanCommand(t *testing.T) {
	t.Run("lists deduplicated names", func(t *testing.T) {
		e := newEnv(t)
		e.recognizer.Names = []string{"Daft Punk", " daft punk ", "", "Justice"}

		if err := e.run("scan", writePoster(t)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := e.out.String()
		if !strings.Contains(out, "2 artists on lineup.png") || !strings.Contains(out, " 2. Justice") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("rejects non-images before calling the API", func(t *testing.T) {
		e := newEnv(t)
		path := filepath.Join(t.TempDir(), "lineup.txt")
		os.WriteFile(path, []byte("not an image"), 0644)

		if err := e.run("scan", path); !errors.Is(err, shared.ErrInvalidUpload) {
			t.Errorf("expected ErrInvalidUpload, got %v", err)
		}
		if e.recognizer.CallCount() != 0 {
			t.Error("expected no recognizer call")
		}
	})
}

func TestCreateCommand(t *testing.T) {
	t.Run("several artists with global preset", func(t *testing.T) {
		e := newEnv(t)
		err := e.run("create", "--artist", "Daft Punk", "--artist", "Justice", "--tracks", "20", "--name", "Fest 2025")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		req := e.lastRequest(t)
		if req.Name != "Fest 2025" || req.TrackCount != 20 || len(req.Entries) != 2 {
			t.Fatalf("unexpected request %+v", req)
		}
		if req.Entries[0].Artist.ID != "dp" || req.Entries[1].Artist.ID != "jc" {
			t.Errorf("expected artists in flag order, got %+v", req.Entries)
		}
		for _, entry := range req.Entries {
			if entry.TrackCount != 20 {
				t.Errorf("%s: expected 20 tracks from the global preset, got %v", entry.Artist.Name, entry.TrackCount)
			}
		}
		if !strings.Contains(e.out.String(), "https://open.spotify.com/playlist/fest") {
			t.Errorf("expected playlist URL in output, got %q", e.out.String())
		}
		if !strings.Contains(e.out.String(), "Searching for 2 artists") || !strings.Contains(e.out.String(), "Creating \"Fest 2025\"") {
			t.Errorf("expected progress in output, got %q", e.out.String())
		}

		records, err := e.history.Recent(0)
		if err != nil || len(records) != 1 {
			t.Fatalf("expected playlist recorded, got %d (%v)", len(records), err)
		}
	})

	t.Run("single artist is staged with tracks", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("create", "--artist", "Justice", "--tracks", "discography"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		req := e.lastRequest(t)
		if len(req.Entries) != 1 || req.Entries[0].TrackCount != models.Discography {
			t.Errorf("expected discography for a single artist, got %+v", req.Entries)
		}
	})

	t.Run("discography rejected for several artists", func(t *testing.T) {
		e := newEnv(t)
		err := e.run("create", "--artist", "Daft Punk", "--artist", "Justice", "--tracks", "all")
		if !errors.Is(err, shared.ErrInvalidPreset) {
			t.Errorf("expected ErrInvalidPreset, got %v", err)
		}
		if e.creator.CallCount() != 0 {
			t.Error("expected no create call")
		}
	})

	t.Run("count overrides and exclusions", func(t *testing.T) {
		e := newEnv(t)
		err := e.run("create", "--artist", "Daft Punk", "--artist", "Justice", "--count", "justice=5", "--exclude", "Daft Punk")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		req := e.lastRequest(t)
		if len(req.Entries) != 1 || req.Entries[0].Artist.Name != "Justice" || req.Entries[0].TrackCount != 5 {
			t.Errorf("unexpected entries %+v", req.Entries)
		}
	})

	t.Run("unknown count target", func(t *testing.T) {
		e := newEnv(t)
		err := e.run("create", "--artist", "Justice", "--count", "Bicep=5")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("excluding everything submits nothing", func(t *testing.T) {
		e := newEnv(t)
		err := e.run("create", "--artist", "Justice", "--exclude", "Justice")
		if !errors.Is(err, shared.ErrNothingSelected) {
			t.Errorf("expected ErrNothingSelected, got %v", err)
		}
		if e.creator.CallCount() != 0 {
			t.Error("expected no create call")
		}
	})

	t.Run("artist without results", func(t *testing.T) {
		e := newEnv(t)
		err := e.run("create", "--artist", "Justice", "--artist", "Nobody")
		if !errors.Is(err, shared.ErrNoArtistsFound) {
			t.Errorf("expected ErrNoArtistsFound, got %v", err)
		}
	})

	t.Run("dry run prints the request", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("create", "--dry-run", "--artist", "Daft Punk", "--name", "Fest 2025"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if e.creator.CallCount() != 0 {
			t.Error("expected no create call")
		}
		out := e.out.String()
		if !strings.Contains(out, "Playlist: Fest 2025") || !strings.Contains(out, "1. Daft Punk [dp] - 10 tracks") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if records, _ := e.history.Recent(0); len(records) != 0 {
			t.Error("expected nothing recorded for a dry run")
		}
	})

	t.Run("poster import", func(t *testing.T) {
		e := newEnv(t)
		e.recognizer.Names = []string{"Daft Punk", "Justice", "Bicep"}

		if err := e.run("create", "--dry-run", "--json", "--poster", writePoster(t), "--exclude", "bicep"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var req models.PlaylistRequest
		if err := json.Unmarshal(e.out.Bytes(), &req); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if req.Name != "Festival Playlist" || len(req.Entries) != 2 {
			t.Errorf("unexpected request %+v", req)
		}
	})

	t.Run("open after create", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("create", "--open", "--json", "--artist", "Justice"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(e.opened) != 1 || e.opened[0] != "https://open.spotify.com/playlist/fest" {
			t.Errorf("expected created playlist opened, got %v", e.opened)
		}
	})

	t.Run("requires input", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("create"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("submit failure", func(t *testing.T) {
		e := newEnv(t)
		e.creator.Err = errors.New("spotify down")
		if err := e.run("create", "--artist", "Justice"); !errors.Is(err, shared.ErrSubmitFailed) {
			t.Errorf("expected ErrSubmitFailed, got %v", err)
		}
	})
}

func TestHistoryCommand(t *testing.T) {
	seed := func(t *testing.T, e *env, names ...string) {
		t.Helper()
		for _, name := range names {
			e.creator.Result = &models.PlaylistResult{URL: "https://open.spotify.com/playlist/" + name, Name: name, TrackCount: 10}
			if err := e.run("create", "--artist", "Justice", "--name", name); err != nil {
				t.Fatalf("failed to seed %s: %v", name, err)
			}
		}
		e.out.Reset()
	}

	t.Run("lists newest first", func(t *testing.T) {
		e := newEnv(t)
		seed(t, e, "first", "second")

		if err := e.run("history"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := e.out.String()
		if strings.Index(out, "second") > strings.Index(out, "first") {
			t.Errorf("expected newest first, got:\n%s", out)
		}
	})

	t.Run("empty", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("history"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(e.out.String(), "No playlists yet") {
			t.Errorf("unexpected output %q", e.out.String())
		}
	})

	t.Run("csv export to file", func(t *testing.T) {
		e := newEnv(t)
		seed(t, e, "first")

		path := filepath.Join(t.TempDir(), "out", "history.csv")
		if err := e.run("history", "--format", "csv", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if content := tu.MustReadFile(t, path); !strings.HasPrefix(content, "Sequence,") {
			t.Errorf("unexpected export %q", content)
		}
	})

	t.Run("json", func(t *testing.T) {
		e := newEnv(t)
		seed(t, e, "first")

		if err := e.run("history", "--format", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var records []map[string]any
		if err := json.Unmarshal(e.out.Bytes(), &records); err != nil || len(records) != 1 {
			t.Fatalf("expected one JSON record, got %d (%v)", len(records), err)
		}
		if records[0]["name"] != "first" {
			t.Errorf("unexpected record %v", records[0])
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("history", "--format", "yaml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("delete by sequence", func(t *testing.T) {
		e := newEnv(t)
		seed(t, e, "first", "second")

		if err := e.run("history", "delete", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		records, _ := e.history.Recent(0)
		if len(records) != 1 || records[0].Name != "second" {
			t.Errorf("expected only second left, got %d records", len(records))
		}

		if err := e.run("history", "delete", "1"); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("open by id", func(t *testing.T) {
		e := newEnv(t)
		seed(t, e, "first")

		records, _ := e.history.Recent(0)
		if err := e.run("history", "open", records[0].ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(e.opened) != 1 || e.opened[0] != "https://open.spotify.com/playlist/first" {
			t.Errorf("unexpected opened %v", e.opened)
		}
	})
}

func TestStatusCommand(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		e := newEnv(t)
		if err := e.run("status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(e.out.String(), "is ok") {
			t.Errorf("unexpected output %q", e.out.String())
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		e := newEnv(t)
		e.health.err = shared.ErrServiceUnavailable
		if err := e.run("status", "--json"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if !strings.Contains(e.out.String(), `"status":"unreachable"`) {
			t.Errorf("unexpected output %q", e.out.String())
		}
	})
}

func TestSetupCommand(t *testing.T) {
	dir := t.TempDir()
	originalDir := tu.MustGetwd(t)
	tu.MustChdir(t, dir)
	defer tu.MustChdir(t, originalDir)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output, Health: &fakeHealth{}})

	if err := runner.app().Run(context.Background(), []string{"festify", "setup"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
	tu.AssertFileExists(t, filepath.Join(dir, "festify.db"))
	if !strings.Contains(output.String(), "2 migrations applied") {
		t.Errorf("unexpected output:\n%s", output.String())
	}
	if runner.db != nil {
		t.Error("expected database closed after the command")
	}
}

func TestParseCounts(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    []countOverride
		wantErr bool
	}{
		{"simple", []string{"Justice=5"}, []countOverride{{"Justice", 5}}, false},
		{"discography", []string{"Daft Punk=all"}, []countOverride{{"Daft Punk", models.Discography}}, false},
		{"name with equals", []string{"A=B=3"}, []countOverride{{"A=B", 3}}, false},
		{"missing name", []string{"=5"}, nil, true},
		{"missing count", []string{"Justice"}, nil, true},
		{"bad count", []string{"Justice=zero"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCounts(tt.values)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) || got[0] != tt.want[0] {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
