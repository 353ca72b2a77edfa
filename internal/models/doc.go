// Package models defines domain entities and persistence interfaces for the steamx achievement exporter.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing Steam Web API data
//   - [Game] : An owned game identified by its AppID
//   - [AchievementDef] : One achievement definition from a game's stats schema
//   - [AchievementSet] : Schema definitions joined with the player's unlock status
//   - [AchievementRecord] : One CSV row, the unit the export pipeline streams
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [ExportJob] : Export operations tracking progress, row counts and outcome
//
// All persistent entities implement the Model interface providing ID, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
