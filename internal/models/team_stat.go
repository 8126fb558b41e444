package models

import (
	"time"
)

// TeamStat is a per-team, per-game box-score aggregate written by the
// ingestion layer. Immutable once written; the engine only reads it.
type TeamStat struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	GameID uint `gorm:"uniqueIndex:idx_team_stats_game_team;not null" json:"game_id"`
	TeamID uint `gorm:"uniqueIndex:idx_team_stats_game_team;index;not null" json:"team_id"`

	Points               int `json:"points"`
	FieldGoalsMade       int `json:"field_goals_made"`
	FieldGoalsAttempted  int `json:"field_goals_attempted"`
	ThreePointsMade      int `json:"three_points_made"`
	ThreePointsAttempted int `json:"three_points_attempted"`
	FreeThrowsMade       int `json:"free_throws_made"`
	FreeThrowsAttempted  int `json:"free_throws_attempted"`
	OffensiveRebounds    int `json:"offensive_rebounds"`
	DefensiveRebounds    int `json:"defensive_rebounds"`
	Assists              int `json:"assists"`
	Steals               int `json:"steals"`
	Blocks               int `json:"blocks"`
	Turnovers            int `json:"turnovers"`
	PersonalFouls        int `json:"personal_fouls"`

	// Possessions is only present when the provider reports it directly;
	// otherwise the engine estimates it from the box score.
	Possessions *float64 `json:"possessions,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Game *Game `gorm:"foreignKey:GameID" json:"-"`
	Team *Team `gorm:"foreignKey:TeamID" json:"-"`
}

// TableName specifies the table name for GORM
func (TeamStat) TableName() string {
	return "team_stats"
}

// Rebounds returns total rebounds.
func (s *TeamStat) Rebounds() int {
	return s.OffensiveRebounds + s.DefensiveRebounds
}
