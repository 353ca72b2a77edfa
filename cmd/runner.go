package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/steamx/internal/repositories"
	"github.com/desertthunder/steamx/internal/services"
	"github.com/desertthunder/steamx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	source     services.AchievementSource
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Catalog and Source are normally built from the config in [Runner.Before]; tests inject fakes.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Source     services.AchievementSource
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		source:     opts.Source,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// Before loads the configuration named by --config and builds the Steam client from it.
//
// A missing config file is not an error: defaults plus STEAMX_* environment variables apply.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := r.loadConfig()
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if r.catalog == nil || r.source == nil {
		steam := r.steamService()
		if r.catalog == nil {
			r.catalog = steam
		}
		if r.source == nil {
			r.source = steam
		}
	}
	return ctx, nil
}

// After closes the database if a command opened it.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) loadConfig() (*shared.Config, error) {
	if _, err := os.Stat(r.configPath); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		config := shared.DefaultConfig()
		if err := shared.ApplyEnv(config); err != nil {
			return nil, err
		}
		return config, nil
	}

	config, err := shared.LoadConfig(r.configPath)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("config loaded", "path", r.configPath)
	return config, nil
}

func (r *Runner) steamService() *services.SteamService {
	client := r.httpClient
	if client == nil {
		client = &http.Client{Timeout: r.config.Steam.Timeout.Duration}
	}
	api := services.NewAPIService(r.config.Steam.BaseURL, client)
	return services.NewSteamService(api, r.config.Steam.Language)
}

func (r *Runner) credentials() services.Credentials {
	return services.Credentials{
		APIKey:  r.config.Credentials.Steam.APIKey,
		SteamID: r.config.Credentials.Steam.SteamID,
	}
}

// requireCredentials fails early with a hint when the API key or SteamID is missing.
func (r *Runner) requireCredentials() (services.Credentials, error) {
	creds := r.credentials()
	if creds.Empty() {
		return creds, fmt.Errorf(
			"%w: set credentials.steam.api_key and credentials.steam.steam_id (or %s_API_KEY and %s_STEAM_ID)",
			shared.ErrMissingConfig, shared.EnvPrefix, shared.EnvPrefix,
		)
	}
	return creds, nil
}

// database opens the configured SQLite database once per process and brings the schema up to date.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

// gameCache returns the owned-games cache for the configured account.
func (r *Runner) gameCache() (*repositories.GameCacheAdapter, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	repo := repositories.NewGameRepository(db)
	return repositories.NewGameCacheAdapter(repo, r.config.Credentials.Steam.SteamID), nil
}

// jobHistory returns the export history recorder.
func (r *Runner) jobHistory() (*repositories.JobHistoryAdapter, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewJobHistoryAdapter(repositories.NewExportJobRepository(db)), nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, configCommand, gamesCommand, exportCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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
