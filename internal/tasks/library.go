package tasks

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/services"
	"github.com/desertthunder/steamx/internal/shared"
)

// LibraryOpts contains configuration for a [Library].
type LibraryOpts struct {
	Emit   func(Event) // receives EventLog and EventListLoaded; nil discards
	Logger *log.Logger
	Cache  GameCache // optional
}

// Library holds the owned-games list shown to the user.
//
// The item set belongs to the foreground: Refresh only fetches on a worker and reports back through Emit,
// and the foreground applies the result with Apply.
type Library struct {
	catalog services.Catalog
	opts    LibraryOpts

	mu    sync.Mutex
	busy  bool
	games []models.Game
	wg    sync.WaitGroup
}

// NewLibrary creates an empty library backed by catalog.
func NewLibrary(catalog services.Catalog, opts LibraryOpts) *Library {
	if opts.Emit == nil {
		opts.Emit = func(Event) {}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Library{catalog: catalog, opts: opts}
}

// Refresh fetches the owned games on a worker goroutine and emits [EventListLoaded] when done.
//
// It fails with [shared.ErrBusy] while a fetch is in flight.
func (l *Library) Refresh(ctx context.Context, creds services.Credentials) error {
	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return fmt.Errorf("%w: game list is already loading", shared.ErrBusy)
	}
	l.busy = true
	l.wg.Add(1)
	l.mu.Unlock()

	l.opts.Emit(listBusyUpdate())

	go func() {
		defer l.wg.Done()

		games, err := l.catalog.OwnedGames(ctx, creds)
		if err != nil {
			l.opts.Logger.Error("failed to load owned games", "error", err)
			l.opts.Emit(listLoadedUpdate(nil, err))
			return
		}

		SortGames(games)
		l.opts.Logger.Info("owned games loaded", "count", len(games))
		l.opts.Emit(listLoadedUpdate(games, nil))
	}()
	return nil
}

// Apply installs a fetch result and clears the busy flag.
//
// A successful result replaces the item set wholesale. A failed one leaves the previous set in place and returns its error.
func (l *Library) Apply(res ListResult) error {
	l.mu.Lock()
	l.busy = false
	if res.Err != nil {
		l.mu.Unlock()
		return res.Err
	}
	l.games = append([]models.Game(nil), res.Games...)
	games := l.games
	l.mu.Unlock()

	if l.opts.Cache != nil {
		if err := l.opts.Cache.SaveGames(games); err != nil {
			l.opts.Logger.Warn("failed to cache games", "error", err)
		}
	}
	return nil
}

// Load seeds the item set from the cache without touching the network. It returns the number of games loaded.
func (l *Library) Load() (int, error) {
	if l.opts.Cache == nil {
		return 0, nil
	}

	games, err := l.opts.Cache.LoadGames()
	if err != nil {
		return 0, fmt.Errorf("failed to load cached games: %w", err)
	}

	SortGames(games)
	l.Set(games)
	return len(games), nil
}

// Set replaces the item set directly.
func (l *Library) Set(games []models.Game) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.games = append([]models.Game(nil), games...)
}

// Busy reports whether a fetch is in flight or its result has not been applied yet.
func (l *Library) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

// Games returns a copy of the item set.
func (l *Library) Games() []models.Game {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Game(nil), l.games...)
}

// Filter returns the games whose name contains keyword, ignoring case. An empty keyword matches everything.
func (l *Library) Filter(keyword string) []models.Game {
	return FilterGames(l.Games(), keyword)
}

// Lookup finds a game by AppID.
func (l *Library) Lookup(appID int) (models.Game, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, g := range l.games {
		if g.AppID == appID {
			return g, true
		}
	}
	return models.Game{}, false
}

// Wait blocks until the in-flight fetch has emitted its result.
func (l *Library) Wait() {
	l.wg.Wait()
}

// FilterGames is the pure keyword filter behind [Library.Filter].
func FilterGames(games []models.Game, keyword string) []models.Game {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return games
	}

	var matched []models.Game
	for _, g := range games {
		if strings.Contains(strings.ToLower(g.Name), keyword) {
			matched = append(matched, g)
		}
	}
	return matched
}

// SortGames orders games by name ignoring case, then by AppID.
func SortGames(games []models.Game) {
	slices.SortStableFunc(games, func(a, b models.Game) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return a.AppID - b.AppID
	})
}
