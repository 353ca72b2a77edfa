package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/steamx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the embedded template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'steamx setup apikey' to get an API key\n")
	r.writePlain("2. Run 'steamx setup database' to create the history database\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.database()
	if err != nil {
		return err
	}

	version, err := shared.SchemaVersion(db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s (schema v%d)\n", r.config.Database.Path, version)
}

// SetupAPIKey opens the Steam API key page and stores --key / --steam-id in the config file.
func (r *Runner) SetupAPIKey(ctx context.Context, cmd *cli.Command) error {
	key := strings.TrimSpace(cmd.String("key"))
	steamID := strings.TrimSpace(cmd.String("steam-id"))

	if key == "" && steamID == "" {
		if cmd.Bool("no-browser") {
			return r.writePlain("Register an API key at %s\n", shared.APIKeyURL)
		}

		r.logger.Info("opening API key page", "url", shared.APIKeyURL)
		if err := shared.Open(shared.APIKeyURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
		r.writePlain("Register an API key at %s\n", shared.APIKeyURL)
		r.writePlain("Then run 'steamx setup apikey --key <key> --steam-id <id>'\n")
		return nil
	}

	if key != "" {
		r.config.Credentials.Steam.APIKey = key
	}
	if steamID != "" {
		if err := validateSteamID(steamID); err != nil {
			return err
		}
		r.config.Credentials.Steam.SteamID = steamID
	}

	if err := r.saveConfig(); err != nil {
		return err
	}
	return r.writePlain("✓ Credentials saved to %s\n", r.configPath)
}

// saveConfig writes the in-memory config back to --config, creating the file if needed.
func (r *Runner) saveConfig() error {
	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrMissingConfig)
	}
	if r.configPath == "" {
		return nil
	}

	if _, err := os.Stat(r.configPath); os.IsNotExist(err) {
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	r.logger.Debug("config saved", "path", r.configPath)
	return nil
}

// validateSteamID accepts the 17-digit SteamID64 form.
func validateSteamID(id string) error {
	if len(id) != 17 {
		return fmt.Errorf("%w: SteamID64 must be 17 digits, got %q", shared.ErrInvalidArgument, id)
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: SteamID64 must be numeric, got %q", shared.ErrInvalidArgument, id)
		}
	}
	return nil
}
