package models

import (
	"time"
)

// TeamMetric is the per-team, per-season derived record. It is recomputed
// wholesale (upsert on team+season) whenever the calculator reruns; the
// adj_* columns are filled in afterwards by the opponent adjustment solver.
type TeamMetric struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	TeamID uint   `gorm:"uniqueIndex:idx_team_metrics_team_season;not null" json:"team_id"`
	Season int    `gorm:"uniqueIndex:idx_team_metrics_team_season;index:idx_team_metrics_sport_season;not null" json:"season"`
	Sport  string `gorm:"index:idx_team_metrics_sport_season;size:20;not null" json:"sport"`

	GamesPlayed  int  `gorm:"not null" json:"games_played"`
	MeetsMinimum bool `gorm:"not null;default:false" json:"meets_minimum"`

	// Raw per-100-possession efficiencies
	OffensiveEfficiency float64  `json:"offensive_efficiency"`
	DefensiveEfficiency float64  `json:"defensive_efficiency"`
	NetRating           float64  `json:"net_rating"`
	Tempo               float64  `json:"tempo"`
	StrengthOfSchedule  *float64 `json:"strength_of_schedule,omitempty"`
	TurnoverMargin      float64  `json:"turnover_margin"`
	ReboundMargin       float64  `json:"rebound_margin"`

	// Rolling-window splits over the most recent N games
	RollingOffensiveEfficiency *float64 `json:"rolling_offensive_efficiency,omitempty"`
	RollingDefensiveEfficiency *float64 `json:"rolling_defensive_efficiency,omitempty"`
	RollingNetRating           *float64 `json:"rolling_net_rating,omitempty"`

	// Home/away splits
	HomeOffensiveEfficiency *float64 `json:"home_offensive_efficiency,omitempty"`
	HomeDefensiveEfficiency *float64 `json:"home_defensive_efficiency,omitempty"`
	AwayOffensiveEfficiency *float64 `json:"away_offensive_efficiency,omitempty"`
	AwayDefensiveEfficiency *float64 `json:"away_defensive_efficiency,omitempty"`

	// Opponent-adjusted counterparts, filled by the adjustment solver
	AdjOffensiveEfficiency *float64 `json:"adj_offensive_efficiency,omitempty"`
	AdjDefensiveEfficiency *float64 `json:"adj_defensive_efficiency,omitempty"`
	AdjNetRating           *float64 `json:"adj_net_rating,omitempty"`
	AdjTempo               *float64 `json:"adj_tempo,omitempty"`
	AdjustmentIterations   int      `gorm:"default:0" json:"adjustment_iterations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Team *Team `gorm:"foreignKey:TeamID" json:"-"`
}

// TableName specifies the table name for GORM
func (TeamMetric) TableName() string {
	return "team_metrics"
}

// IsAdjusted reports whether the opponent adjustment solver has run for
// this record since its last recompute.
func (m *TeamMetric) IsAdjusted() bool {
	return m.AdjOffensiveEfficiency != nil && m.AdjDefensiveEfficiency != nil
}
