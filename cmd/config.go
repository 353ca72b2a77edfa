package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/steamx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigShow prints the effective configuration as TOML.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	shown := *r.config
	if !cmd.Bool("reveal") {
		shown.Credentials.Steam.APIKey = maskSecret(shown.Credentials.Steam.APIKey)
	}

	r.writePlain("# %s\n", r.configPath)
	if err := toml.NewEncoder(r.output).Encode(shown); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// ConfigSet updates one key and rewrites the config file.
func (r *Runner) ConfigSet(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	value := cmd.StringArg("value")
	if key == "" {
		return fmt.Errorf("%w: usage: steamx config set <key> <value>", shared.ErrMissingArgument)
	}

	if key == "steam_id" || key == "credentials.steam.steam_id" {
		if err := validateSteamID(value); err != nil {
			return err
		}
	}

	if err := shared.SetConfigValue(r.config, key, value); err != nil {
		return err
	}
	if err := r.saveConfig(); err != nil {
		return err
	}

	r.logger.Info("config updated", "key", key)
	return r.writePlain("✓ %s updated\n", key)
}

// maskSecret keeps the last four characters of s.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
