// Package repositories implements SQLite persistence for export history and the owned-games cache.
//
// Key Implementations:
//   - [ExportJobRepository] : Export job history with status tracking and soft deletes
//   - [GameRepository] : Last owned-games list per SteamID
//   - [JobHistoryAdapter] : Bridges the exporter's job recorder to ExportJobRepository
//   - [GameCacheAdapter] : Bridges the game library cache to GameRepository
//
// Sequence numbers provide stable, human-readable ordering (e.g., export #15) independent of UUIDs and creation timestamps.
// [NextSequence] advances the counter row of a table's companion sequence table in a single statement.
package repositories
