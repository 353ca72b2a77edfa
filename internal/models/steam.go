package models

import (
	"fmt"
	"strings"
)

// Game is an owned game in the user's library. Identity is the AppID.
type Game struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// Title returns the display name, falling back to "AppID <id>" when Steam sent none.
func (g Game) Title() string {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Sprintf("AppID %d", g.AppID)
	}
	return g.Name
}

func (g Game) String() string {
	return fmt.Sprintf("%s (AppID: %d)", g.Title(), g.AppID)
}

// AchievementDef is a single achievement from GetSchemaForGame.
type AchievementDef struct {
	Key         string // api name, joins with the player's status
	Label       string // localized display name
	Description string
}

// AchievementSet is the joined result of the schema and player achievement calls for one game.
type AchievementSet struct {
	DisplayName string // game.gameName from the schema, may be empty
	Definitions []AchievementDef
	Achieved    map[string]bool
}

// Records expands the set into CSV rows. groupName is used when the schema carries no display name.
//
// Definitions without a status entry are reported as not achieved.
func (s AchievementSet) Records(groupName string) []AchievementRecord {
	name := s.DisplayName
	if name == "" {
		name = groupName
	}

	records := make([]AchievementRecord, 0, len(s.Definitions))
	for _, def := range s.Definitions {
		records = append(records, AchievementRecord{
			GameName:    name,
			Name:        def.Label,
			Description: def.Description,
			Achieved:    s.Achieved[def.Key],
		})
	}
	return records
}

// AchievementRecord is one exported row.
type AchievementRecord struct {
	GameName    string
	Name        string
	Description string
	Achieved    bool
}
