package models

import (
	"time"
)

// Prediction is the per-game singleton produced by the prediction
// generator. The live_* group is populated only while the game is in an
// in-progress status and cleared once it leaves it.
type Prediction struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	GameID uint   `gorm:"uniqueIndex;not null" json:"game_id"`
	Sport  string `gorm:"size:20;not null" json:"sport"`
	Season int    `gorm:"not null" json:"season"`

	// Elo snapshot at generation time
	HomeElo int `json:"home_elo"`
	AwayElo int `json:"away_elo"`

	// Blended outputs. Spread is home margin: positive means home favored.
	Spread         float64 `json:"spread"`
	Total          float64 `json:"total"`
	WinProbability float64 `json:"win_probability"`
	Confidence     float64 `json:"confidence"`

	// Projected team scores behind the total
	HomeProjected float64 `json:"home_projected"`
	AwayProjected float64 `json:"away_projected"`

	// Component breakdowns; nil when the component was unavailable
	EloSpread        *float64 `json:"elo_spread,omitempty"`
	EfficiencySpread *float64 `json:"efficiency_spread,omitempty"`
	FormSpread       *float64 `json:"form_spread,omitempty"`
	VegasSpread      *float64 `json:"vegas_spread,omitempty"`
	VegasTotal       *float64 `json:"vegas_total,omitempty"`

	// Live projection group: non-null iff the game is in progress
	LiveSpread           *float64   `json:"live_spread,omitempty"`
	LiveTotal            *float64   `json:"live_total,omitempty"`
	LiveWinProbability   *float64   `json:"live_win_probability,omitempty"`
	LiveSecondsRemaining *int       `json:"live_seconds_remaining,omitempty"`
	LiveUpdatedAt        *time.Time `json:"live_updated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Game *Game `gorm:"foreignKey:GameID" json:"-"`
}

// TableName specifies the table name for GORM
func (Prediction) TableName() string {
	return "predictions"
}

// HasLive reports whether the live projection group is populated.
func (p *Prediction) HasLive() bool {
	return p.LiveWinProbability != nil
}
