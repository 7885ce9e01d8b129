package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festify/internal/repositories"
	"github.com/desertthunder/festify/internal/services"
	"github.com/desertthunder/festify/internal/shared"
	"github.com/desertthunder/festify/internal/workflow"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies left nil are built from the configuration in [Runner.prepare].
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	catalog    services.Catalog
	recognizer services.Recognizer
	creator    services.PlaylistCreator
	health     services.HealthChecker
	history    *repositories.HistoryRepository
	db         *sql.DB
	festify    *services.FestifyService
	ownsAPI    bool
	logger     *log.Logger
	output     io.Writer
	open       func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Catalog    services.Catalog
	Recognizer services.Recognizer
	Creator    services.PlaylistCreator
	Health     services.HealthChecker
	History    *repositories.HistoryRepository
	Logger     *log.Logger
	Output     io.Writer
	Open       func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		catalog:    opts.Catalog,
		recognizer: opts.Recognizer,
		creator:    opts.Creator,
		health:     opts.Health,
		history:    opts.History,
		logger:     opts.Logger,
		output:     opts.Output,
		open:       opts.Open,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:                      "festify",
		Usage:                     "Build Spotify playlists from artist searches and festival posters",
		Version:                   "0.1.0",
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("FESTIFY_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Override api.base_url",
				Sources: cli.EnvVars("FESTIFY_API_URL"),
			},
		},
		Before:   r.prepare,
		After:    r.close,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, scanCommand, createCommand, historyCommand, statusCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// prepare loads the configuration and builds the API clients the command did not receive.
func (r *Runner) prepare(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		r.configPath = cmd.String("config")
		config, err := r.loadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if u := cmd.String("api-url"); u != "" {
		r.config.API.BaseURL = u
	}
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	shared.SetLogLevel(r.logger, r.config.Logging.ParseLevel())

	if r.catalog != nil && r.recognizer != nil && r.creator != nil && r.health != nil {
		return ctx, nil
	}

	if r.api == nil {
		r.connect(ctx)
		return ctx, nil
	}

	r.serve(services.NewFestifyService(r.api), nil)
	return ctx, nil
}

// connect builds the API client from the configuration. It serves the clients the caller did not inject.
func (r *Runner) connect(ctx context.Context) {
	prev := r.festify
	r.api = services.NewAPIServiceFromConfig(ctx, r.config.API, shared.WithLogger(r.logger, "component", "api"))
	r.ownsAPI = true
	r.festify = services.NewFestifyService(r.api)
	r.serve(r.festify, prev)
}

// serve assigns festify to every client that is unset or still served by prev.
func (r *Runner) serve(festify, prev *services.FestifyService) {
	replace := func(client any) bool {
		return client == nil || (prev != nil && client == any(prev))
	}

	if replace(r.catalog) {
		r.catalog = festify
	}
	if replace(r.recognizer) {
		r.recognizer = festify
	}
	if replace(r.creator) {
		r.creator = festify
	}
	if replace(r.health) {
		r.health = festify
	}
}

// loadConfig reads path, falling back to the defaults when no file exists.
func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return shared.DefaultConfig(), nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	return config, nil
}

func (r *Runner) close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// historyRepository opens (and migrates) the history database on first use.
func (r *Runner) historyRepository() (*repositories.HistoryRepository, error) {
	if r.history != nil {
		return r.history, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	r.db = db
	r.history = repositories.NewHistoryRepository(db)
	return r.history, nil
}

// newWorkflow wires a workflow to the API clients. A nil recorder keeps history untouched.
func (r *Runner) newWorkflow(recorder workflow.Recorder) (*workflow.Workflow, *workflow.Resolver) {
	resolver := workflow.NewResolver(r.catalog, r.recognizer, shared.WithLogger(r.logger, "component", "resolver"))
	gateway := workflow.NewGateway(r.creator, shared.WithLogger(r.logger, "component", "gateway"))

	w := workflow.New(resolver, gateway, workflow.Options{
		DefaultName: r.config.Playlist.DefaultName,
		PosterName:  r.config.Playlist.PosterName,
		Recorder:    recorder,
		Logger:      shared.WithLogger(r.logger, "component", "workflow"),
	})
	return w, resolver
}

// recorder returns the history recorder, or nil with a warning when the database is unavailable.
func (r *Runner) recorder() workflow.Recorder {
	repo, err := r.historyRepository()
	if err != nil {
		r.logger.Warn("playlist history disabled", "error", err)
		return nil
	}
	return repositories.NewHistoryRecorder(repo)
}

// SetLogger replaces the logger used by commands.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
