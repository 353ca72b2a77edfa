package repositories

import (
	"time"

	"github.com/desertthunder/steamx/internal/models"
)

// GameCacheAdapter implements tasks.GameCache using GameRepository, scoped to one SteamID.
type GameCacheAdapter struct {
	repo    *GameRepository
	steamID string
}

// NewGameCacheAdapter creates a new GameCacheAdapter for steamID
func NewGameCacheAdapter(repo *GameRepository, steamID string) *GameCacheAdapter {
	return &GameCacheAdapter{repo: repo, steamID: steamID}
}

// SaveGames replaces the cached list.
func (a *GameCacheAdapter) SaveGames(games []models.Game) error {
	return a.repo.ReplaceAll(a.steamID, games)
}

// LoadGames returns the cached list, empty when nothing was stored yet.
func (a *GameCacheAdapter) LoadGames() ([]models.Game, error) {
	return a.repo.List(a.steamID)
}

// FetchedAt reports when the cached list was last replaced.
func (a *GameCacheAdapter) FetchedAt() (time.Time, bool, error) {
	return a.repo.FetchedAt(a.steamID)
}
