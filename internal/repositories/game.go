package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/steamx/internal/models"
)

// GameRepository stores the last owned-games list fetched for each SteamID.
//
// Rows are keyed by (steam_id, app_id). A refresh replaces the whole list for that account.
type GameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository with the given database connection
func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

// ReplaceAll swaps the cached games for steamID in a single transaction.
func (r *GameRepository) ReplaceAll(steamID string, games []models.Game) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM games WHERE steam_id = ?", steamID); err != nil {
		return fmt.Errorf("failed to clear cached games: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO games (steam_id, app_id, name, fetched_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, g := range games {
		if _, err := stmt.Exec(steamID, g.AppID, g.Name, now); err != nil {
			return fmt.Errorf("failed to insert game %d: %w", g.AppID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit games: %w", err)
	}
	return nil
}

// List returns the cached games for steamID ordered by name.
func (r *GameRepository) List(steamID string) ([]models.Game, error) {
	rows, err := r.db.Query(`
		SELECT app_id, name FROM games
		WHERE steam_id = ?
		ORDER BY name COLLATE NOCASE, app_id
	`, steamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var g models.Game
		if err := rows.Scan(&g.AppID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return games, nil
}

// FetchedAt returns when the cached list for steamID was stored. ok is false when nothing is cached.
func (r *GameRepository) FetchedAt(steamID string) (t time.Time, ok bool, err error) {
	err = r.db.QueryRow(
		"SELECT fetched_at FROM games WHERE steam_id = ? ORDER BY fetched_at DESC LIMIT 1", steamID,
	).Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query cache time: %w", err)
	}
	return t, true, nil
}
