package models

import (
	"time"

	"gorm.io/datatypes"
)

// GameStatus is the canonical lifecycle state of a game. Provider status
// strings are mapped into these values by the ingestion layer using the
// per-sport status aliases (see internal/sports).
type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusHalftime   GameStatus = "halftime"
	StatusEndPeriod  GameStatus = "end_period"
	StatusFinal      GameStatus = "final"
)

// IsFinal reports whether the game has reached its terminal state.
// Only final games feed Elo grading and season metrics.
func (s GameStatus) IsFinal() bool {
	return s == StatusFinal
}

// IsInProgress reports whether the game is in one of the live states
// that feed the in-game projector.
func (s GameStatus) IsInProgress() bool {
	switch s {
	case StatusInProgress, StatusHalftime, StatusEndPeriod:
		return true
	}
	return false
}

// SeasonType distinguishes regular-season from postseason games for
// K-factor scaling.
const (
	SeasonTypeRegular    = "regular"
	SeasonTypePostseason = "postseason"
)

// Game is owned by the ingestion subsystem. Identity and schedule fields
// are immutable; status, scores and live clock fields are updated in place
// as the game progresses.
type Game struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ExternalID  string     `gorm:"uniqueIndex:idx_games_sport_external;size:64;not null" json:"external_id"`
	Sport       string     `gorm:"uniqueIndex:idx_games_sport_external;index:idx_games_sport_season;size:20;not null" json:"sport"`
	Season      int        `gorm:"index:idx_games_sport_season;not null" json:"season"`
	SeasonType  string     `gorm:"size:20;not null;default:regular" json:"season_type"`
	Week        *int       `json:"week,omitempty"`
	HomeTeamID  *uint      `gorm:"index" json:"home_team_id"`
	AwayTeamID  *uint      `gorm:"index" json:"away_team_id"`
	Status      GameStatus `gorm:"index;size:20;not null;default:scheduled" json:"status"`
	ScheduledAt time.Time  `gorm:"index;not null" json:"scheduled_at"`
	NeutralSite bool       `gorm:"default:false" json:"neutral_site"`

	// Live fields, populated while the game is underway
	HomeScore  *int           `json:"home_score,omitempty"`
	AwayScore  *int           `json:"away_score,omitempty"`
	Period     *int           `json:"period,omitempty"`
	Clock      *string        `gorm:"size:10" json:"clock,omitempty"`
	Linescores datatypes.JSON `json:"linescores,omitempty"`

	// Optional market odds attached by the ingestion layer
	Odds *OddsPayload `gorm:"type:jsonb" json:"odds,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	HomeTeam *Team `gorm:"foreignKey:HomeTeamID" json:"home_team,omitempty"`
	AwayTeam *Team `gorm:"foreignKey:AwayTeamID" json:"away_team,omitempty"`
}

// TableName specifies the table name for GORM
func (Game) TableName() string {
	return "games"
}

// IsPostseason reports whether the game counts as a playoff game for
// K-factor purposes.
func (g *Game) IsPostseason() bool {
	return g.SeasonType == SeasonTypePostseason
}

// HasTeams reports whether both team references resolved during ingestion.
// Games with dangling references are skipped by every engine operation.
func (g *Game) HasTeams() bool {
	return g.HomeTeamID != nil && g.AwayTeamID != nil
}

// Margin returns home score minus away score, or 0 when scores are absent.
func (g *Game) Margin() int {
	if g.HomeScore == nil || g.AwayScore == nil {
		return 0
	}
	return *g.HomeScore - *g.AwayScore
}
