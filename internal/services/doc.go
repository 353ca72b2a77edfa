// Package services talks to the Steam Web API.
//
// [SteamService] implements [Catalog] and [AchievementSource] on top of [APIService], a thin GET helper
// that returns raw status and body so callers can classify failures themselves.
//
// # Endpoints
//
//   - IPlayerService/GetOwnedGames/v1 : the account's library, including free-to-play titles
//   - ISteamUserStats/GetPlayerAchievements/v1 : unlock status per achievement api name
//   - ISteamUserStats/GetSchemaForGame/v2 : localized achievement names and descriptions
//
// # Error Handling
//
// Failures wrap sentinels from the shared package:
//   - [shared.ErrAuth] : missing credentials, HTTP 401 or 403
//   - [shared.ErrTransport] : network errors, timeouts, HTTP 429 and 5xx
//   - [shared.ErrProtocol] : a body that is not the expected JSON shape
//
// A game whose stats are missing is not an error: [SteamService.FetchAchievements] reports it as [FetchNoData].
// The client never retries and never sleeps; pacing belongs to the caller.
package services
