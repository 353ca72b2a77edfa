// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles first-run setup of config, database and API key.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Create config.toml from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "apikey",
				Usage: "Open the Steam API key page and store credentials",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "key",
						Usage: "Steam Web API key to save",
					},
					&cli.StringFlag{
						Name:  "steam-id",
						Usage: "SteamID64 to save",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the API key URL instead of opening it",
					},
				},
				Action: r.SetupAPIKey,
			},
		},
	}
}

// configCommand shows and edits config.toml
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change configuration values",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration (API key masked)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "reveal",
						Usage: "Print the API key in full",
					},
				},
				Action: r.ConfigShow,
			},
			{
				Name:  "set",
				Usage: "Set a configuration value and save the file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.ConfigSet,
			},
		},
	}
}

// gamesCommand lists owned games
func gamesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "games",
		Usage: "Owned games operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List owned games, fetching from Steam unless --cached is set",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read the last fetched list from the database",
					},
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Only show games whose name contains this keyword",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.GamesList,
			},
		},
	}
}

// exportCommand runs achievement exports
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export achievements to CSV",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Export the achievements of the selected games",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "game",
						Aliases: []string{"g"},
						Usage:   "AppID or exact game name (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every owned game",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Directory for the CSV file (default: export.output_dir or ~/steam_export)",
					},
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "Minimum spacing between games (default: steam.delay)",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the CSV when the export finishes",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Do not draw the progress bar",
					},
				},
				Action: r.ExportRun,
			},
		},
	}
}

// historyCommand shows past export jobs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Export history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent export jobs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of jobs to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only show jobs with this status",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.HistoryList,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive exports.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive exporter",
		Action:  r.TUI,
	}
}
