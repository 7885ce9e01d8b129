// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// searchCommand searches the catalog for an artist
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog for artists",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results to show (0 shows all)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Search,
	}
}

// scanCommand recognizes the artists on a festival poster
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Read artist names off a festival poster",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "poster",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Scan,
	}
}

// createCommand assembles and creates a playlist non-interactively
func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a playlist from artists and/or a festival poster",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artist to search for; the top result is added (repeatable)",
			},
			&cli.StringFlag{
				Name:    "poster",
				Aliases: []string{"p"},
				Usage:   "Festival poster to import artists from",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent artist searches (max 10)",
				Value: 4,
			},
			&cli.StringFlag{
				Name:    "tracks",
				Aliases: []string{"t"},
				Usage:   "Tracks per artist: 5, 10, 20 or discography (single artist only)",
			},
			&cli.StringSliceFlag{
				Name:  "count",
				Usage: "Per-artist track count as NAME=N (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Leave an imported artist out of the playlist (repeatable)",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the request without creating the playlist",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the created playlist in the browser",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Create,
	}
}

// historyCommand lists, exports and deletes created playlists
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show playlists created with festify",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to show (0 shows all)",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "search",
				Usage: "Only show playlists whose name contains this text",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, markdown or json",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the export to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.History,
		Commands: []*cli.Command{
			{
				Name:  "delete",
				Usage: "Remove a playlist from history by ID or sequence number",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.HistoryDelete,
			},
			{
				Name:  "open",
				Usage: "Open a playlist from history in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.HistoryOpen,
			},
		},
	}
}

// statusCommand checks the API
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check that the Festify API is reachable (calls /health)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

// setupCommand creates the configuration file and history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the history database",
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist building.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for building a playlist",
		Action:  r.TUI,
	}
}
