package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/services"
	"github.com/desertthunder/steamx/internal/shared"
	"github.com/desertthunder/steamx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// GamesList prints owned games, optionally filtered by keyword.
func (r *Runner) GamesList(ctx context.Context, cmd *cli.Command) error {
	var lib *tasks.Library
	var err error

	if cmd.Bool("cached") {
		lib, err = r.cachedLibrary()
	} else {
		creds, cerr := r.requireCredentials()
		if cerr != nil {
			return cerr
		}
		lib, err = r.fetchLibrary(ctx, creds)
	}
	if err != nil {
		return err
	}

	games := lib.Filter(cmd.String("filter"))
	if cmd.Bool("json") {
		if games == nil {
			games = []models.Game{}
		}
		return r.writeJSON(games, true)
	}

	title := fmt.Sprintf("Owned games (%d)", len(games))
	if cmd.Bool("cached") {
		title += r.cacheAge()
	}
	r.writePlainHeader(title)
	for _, g := range games {
		r.writePlain("%10d  %s\n", g.AppID, g.Title())
	}
	return nil
}

// cachedLibrary seeds a library from the database without touching the network.
func (r *Runner) cachedLibrary() (*tasks.Library, error) {
	cache, err := r.gameCache()
	if err != nil {
		return nil, err
	}

	lib := tasks.NewLibrary(r.catalog, tasks.LibraryOpts{Logger: r.logger, Cache: cache})
	n, err := lib.Load()
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded cached games", "count", n)
	return lib, nil
}

// cacheAge describes when the cached list was stored, or nothing when that is unknown.
func (r *Runner) cacheAge() string {
	cache, err := r.gameCache()
	if err != nil {
		return ""
	}
	at, ok, err := cache.FetchedAt()
	if err != nil || !ok {
		return ""
	}
	return fmt.Sprintf(", cached %s", at.Local().Format(time.DateTime))
}

// fetchLibrary runs one owned-games refresh and applies the result on this goroutine.
//
// The database cache is best effort: when it cannot be opened the list is still fetched.
func (r *Runner) fetchLibrary(ctx context.Context, creds services.Credentials) (*tasks.Library, error) {
	events := make(chan tasks.Event, 8)
	opts := tasks.LibraryOpts{Emit: tasks.ChanEmitter(events), Logger: r.logger}
	if cache, err := r.gameCache(); err != nil {
		r.logger.Warn("game cache unavailable", "error", err)
	} else {
		opts.Cache = cache
	}

	lib := tasks.NewLibrary(r.catalog, opts)
	if err := lib.Refresh(ctx, creds); err != nil {
		return nil, err
	}

	for ev := range events {
		switch ev.Kind {
		case tasks.EventLog:
			r.logger.Info(ev.Message)
		case tasks.EventListLoaded:
			if err := lib.Apply(*ev.List); err != nil {
				return nil, fmt.Errorf("failed to load owned games: %w", err)
			}
			r.logger.Info(ev.Message)
			return lib, nil
		}
	}
	return lib, nil
}

// resolveGames maps --game values to games in lib. Values are AppIDs or exact names, case-insensitive.
func resolveGames(lib *tasks.Library, values []string) ([]models.Game, error) {
	games := lib.Games()
	seen := make(map[int]bool)
	var selection []models.Game

	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}

		game, ok := findGame(lib, games, value)
		if !ok {
			return nil, fmt.Errorf("%w: %q", shared.ErrGameNotFound, value)
		}
		if seen[game.AppID] {
			continue
		}
		seen[game.AppID] = true
		selection = append(selection, game)
	}
	return selection, nil
}

func findGame(lib *tasks.Library, games []models.Game, value string) (models.Game, bool) {
	if id, err := strconv.Atoi(value); err == nil {
		return lib.Lookup(id)
	}
	for _, g := range games {
		if strings.EqualFold(g.Name, value) {
			return g, true
		}
	}
	return models.Game{}, false
}
