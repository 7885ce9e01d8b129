package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/festify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file when missing, then initializes the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = cmd.String("config")
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("using existing config file", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	if _, err := r.historyRepository(); err != nil {
		return err
	}

	versions, err := shared.AppliedVersions(r.db)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)

	r.writePlain("✓ Config: %s\n", configPath)
	r.writePlain("✓ Database: %s (%d migrations applied)\n", r.config.Database.Path, len(versions))
	r.writePlainln("Next steps:")
	r.writePlain("1. Set api.base_url in %s (currently %s)\n", configPath, r.config.API.BaseURL)
	r.writePlain("2. Run 'festify status' to check the API\n")
	return nil
}

// Status calls GET /health.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	status, err := r.health.Health(ctx)
	if err != nil {
		if cmd.Bool("json") {
			r.writeJSON(map[string]string{"status": "unreachable", "error": err.Error()}, false)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, false)
	}
	return r.writePlain("✓ Festify API at %s is %s\n", r.config.API.BaseURL, status.Status)
}
