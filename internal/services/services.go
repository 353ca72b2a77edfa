// package services defines the Steam Web API client used by the export pipeline
package services

import (
	"context"

	"github.com/desertthunder/steamx/internal/models"
)

// Credentials identify the account whose library is read.
type Credentials struct {
	APIKey  string
	SteamID string
}

// Empty reports whether either value is missing.
func (c Credentials) Empty() bool {
	return c.APIKey == "" || c.SteamID == ""
}

// Catalog lists the games owned by an account.
type Catalog interface {
	OwnedGames(ctx context.Context, creds Credentials) ([]models.Game, error)
}

// AchievementSource fetches the joined achievement data for one game.
type AchievementSource interface {
	FetchAchievements(ctx context.Context, creds Credentials, appID int) FetchResult
}

// FetchStatus tags a [FetchResult].
type FetchStatus int

const (
	FetchOK     FetchStatus = iota // Data is populated
	FetchNoData                    // game has no achievement stats or they are hidden
	FetchFailed                    // request failed; Err says why
)

func (s FetchStatus) String() string {
	switch s {
	case FetchOK:
		return "ok"
	case FetchNoData:
		return "no data"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchResult is the outcome of fetching one game's achievements.
type FetchResult struct {
	Status FetchStatus
	Data   models.AchievementSet
	Reason string // set for FetchNoData
	Err    error  // set for FetchFailed, wraps a shared sentinel
}

// Fetched builds a successful result.
func Fetched(data models.AchievementSet) FetchResult {
	return FetchResult{Status: FetchOK, Data: data}
}

// NoData builds a result for a game without usable stats.
func NoData(reason string) FetchResult {
	return FetchResult{Status: FetchNoData, Reason: reason}
}

// Failed builds a result for a failed request.
func Failed(err error) FetchResult {
	return FetchResult{Status: FetchFailed, Err: err}
}
