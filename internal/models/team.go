package models

import (
	"time"
)

// DefaultElo is the rating assigned to a team that has never been graded.
const DefaultElo = 1500

// Team is owned by the ingestion subsystem; the engine only ever mutates
// CurrentElo, and only through the rating service.
type Team struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExternalID   string    `gorm:"uniqueIndex:idx_teams_sport_external;size:64;not null" json:"external_id"`
	Sport        string    `gorm:"uniqueIndex:idx_teams_sport_external;size:20;not null" json:"sport"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Abbreviation string    `gorm:"size:10" json:"abbreviation"`
	CurrentElo   int       `gorm:"not null;default:1500" json:"current_elo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Team) TableName() string {
	return "teams"
}

// HasDefaultElo reports whether the team still carries the untouched
// baseline rating, i.e. no game has been graded for it.
func (t *Team) HasDefaultElo() bool {
	return t.CurrentElo == DefaultElo
}
