package models

import (
	"time"
)

// EloRatingHistory is the append-only rating ledger: one row per team per
// graded game. Rows are only ever inserted, never mutated, which makes the
// ledger usable for point-in-time rating reconstruction and doubles as the
// idempotency guard against double-grading a game.
type EloRatingHistory struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TeamID   uint      `gorm:"uniqueIndex:idx_elo_history_game_team;index:idx_elo_history_team_date;not null" json:"team_id"`
	GameID   uint      `gorm:"uniqueIndex:idx_elo_history_game_team;not null" json:"game_id"`
	Sport    string    `gorm:"size:20;not null" json:"sport"`
	Season   int       `gorm:"not null" json:"season"`
	GameDate time.Time `gorm:"index:idx_elo_history_team_date;not null" json:"game_date"`

	// Rating is the team's rating after this game was applied.
	Rating int `gorm:"not null" json:"rating"`
	// Change is the signed delta applied by this game.
	Change float64 `gorm:"not null" json:"change"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Team *Team `gorm:"foreignKey:TeamID" json:"-"`
	Game *Game `gorm:"foreignKey:GameID" json:"-"`
}

// TableName specifies the table name for GORM
func (EloRatingHistory) TableName() string {
	return "elo_rating_history"
}
