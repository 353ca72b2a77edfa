// Steam Web API implementation of [Catalog] and [AchievementSource]
//
// Response types based on https://developer.valvesoftware.com/wiki/Steam_Web_API
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/shared"
)

const (
	ownedGamesPath         = "/IPlayerService/GetOwnedGames/v1/"
	playerAchievementsPath = "/ISteamUserStats/GetPlayerAchievements/v1/"
	schemaForGamePath      = "/ISteamUserStats/GetSchemaForGame/v2/"

	DefaultLanguage = "english"
)

type ownedGamesResponse struct {
	Response *struct {
		GameCount int             `json:"game_count"`
		Games     []ownedGameJSON `json:"games"`
	} `json:"response"`
}

type ownedGameJSON struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

type playerAchievementsResponse struct {
	PlayerStats *struct {
		SteamID      string                   `json:"steamID"`
		GameName     string                   `json:"gameName"`
		Achievements *[]playerAchievementJSON `json:"achievements"`
		Success      bool                     `json:"success"`
		Error        string                   `json:"error"`
	} `json:"playerstats"`
}

type playerAchievementJSON struct {
	APIName  string `json:"apiname"`
	Achieved int    `json:"achieved"`
}

type schemaResponse struct {
	Game *struct {
		GameName           string `json:"gameName"`
		AvailableGameStats *struct {
			Achievements *[]schemaAchievementJSON `json:"achievements"`
		} `json:"availableGameStats"`
	} `json:"game"`
}

type schemaAchievementJSON struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Hidden      int    `json:"hidden"`
}

// SteamService reads owned games and achievements for one configured language.
type SteamService struct {
	api      *APIService
	language string
}

// NewSteamService creates a client. An empty language selects [DefaultLanguage].
func NewSteamService(api *APIService, language string) *SteamService {
	if api == nil {
		api = NewAPIService("", nil)
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &SteamService{api: api, language: language}
}

// Language returns the schema language sent as the "l" parameter.
func (s *SteamService) Language() string { return s.language }

// OwnedGames lists the account's games including played free-to-play titles.
//
// A private profile answers without a games array and yields an empty list. Order is whatever Steam returns.
func (s *SteamService) OwnedGames(ctx context.Context, creds Credentials) ([]models.Game, error) {
	if creds.Empty() {
		return nil, fmt.Errorf("%w: API key and SteamID are required", shared.ErrAuth)
	}

	query := url.Values{}
	query.Set("key", creds.APIKey)
	query.Set("steamid", creds.SteamID)
	query.Set("include_appinfo", "1")
	query.Set("include_played_free_games", "1")

	resp, err := s.api.Get(ctx, ownedGamesPath, query)
	if err != nil {
		return nil, fmt.Errorf("%w: owned games: %v", shared.ErrTransport, err)
	}
	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("%w: owned games", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: owned games: HTTP %d", shared.ErrTransport, resp.StatusCode)
	}

	var payload ownedGamesResponse
	if !resp.IsJSON || resp.Decode(&payload) != nil || payload.Response == nil {
		return nil, fmt.Errorf("%w: owned games response has no response object", shared.ErrProtocol)
	}

	games := make([]models.Game, 0, len(payload.Response.Games))
	for _, g := range payload.Response.Games {
		game := models.Game{AppID: g.AppID, Name: g.Name}
		game.Name = game.Title()
		games = append(games, game)
	}
	return games, nil
}

// FetchAchievements joins the player's unlock status with the localized schema for appID.
func (s *SteamService) FetchAchievements(ctx context.Context, creds Credentials, appID int) FetchResult {
	if creds.Empty() {
		return Failed(fmt.Errorf("%w: API key and SteamID are required", shared.ErrAuth))
	}

	query := url.Values{}
	query.Set("key", creds.APIKey)
	query.Set("steamid", creds.SteamID)
	query.Set("appid", strconv.Itoa(appID))

	var stats playerAchievementsResponse
	if res, ok := s.fetchJSON(ctx, playerAchievementsPath, query, &stats); !ok {
		return res
	}
	if stats.PlayerStats == nil || stats.PlayerStats.Achievements == nil {
		reason := "no player achievements"
		if stats.PlayerStats != nil && stats.PlayerStats.Error != "" {
			reason = stats.PlayerStats.Error
		}
		return NoData(reason)
	}

	achieved := make(map[string]bool, len(*stats.PlayerStats.Achievements))
	for _, a := range *stats.PlayerStats.Achievements {
		achieved[a.APIName] = a.Achieved == 1
	}

	query = url.Values{}
	query.Set("key", creds.APIKey)
	query.Set("appid", strconv.Itoa(appID))
	query.Set("l", s.language)

	var schema schemaResponse
	if res, ok := s.fetchJSON(ctx, schemaForGamePath, query, &schema); !ok {
		return res
	}
	if schema.Game == nil || schema.Game.AvailableGameStats == nil || schema.Game.AvailableGameStats.Achievements == nil {
		return NoData("no achievement schema")
	}

	defs := make([]models.AchievementDef, 0, len(*schema.Game.AvailableGameStats.Achievements))
	for _, a := range *schema.Game.AvailableGameStats.Achievements {
		defs = append(defs, models.AchievementDef{Key: a.Name, Label: a.DisplayName, Description: a.Description})
	}

	return Fetched(models.AchievementSet{
		DisplayName: schema.Game.GameName,
		Definitions: defs,
		Achieved:    achieved,
	})
}

// fetchJSON performs one stats request and decodes it into v.
//
// ok is false when res already holds the terminal result for the game.
// Steam answers 400 with a JSON body for games without stats, so non-2xx JSON bodies are still decoded.
func (s *SteamService) fetchJSON(ctx context.Context, path string, query url.Values, v any) (res FetchResult, ok bool) {
	resp, err := s.api.Get(ctx, path, query)
	if err != nil {
		return Failed(fmt.Errorf("%w: %v", shared.ErrTransport, err)), false
	}

	if err := classifyStatus(resp.StatusCode); err != nil {
		return Failed(err), false
	}

	if !resp.IsJSON {
		if !resp.OK() {
			return Failed(fmt.Errorf("%w: HTTP %d", shared.ErrTransport, resp.StatusCode)), false
		}
		return NoData(shared.ErrProtocol.Error()), false
	}

	if err := resp.Decode(v); err != nil {
		return NoData(fmt.Sprintf("%v: %v", shared.ErrProtocol, err)), false
	}
	return FetchResult{}, true
}

// classifyStatus maps auth and retryable statuses to sentinels. Other statuses return nil.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", shared.ErrAuth, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%w: HTTP %d", shared.ErrTransport, code)
	default:
		return nil
	}
}
