// Package engine contains the prediction and rating core: Elo grading,
// season efficiency metrics, the opponent adjustment solver, the pre-game
// prediction ensemble and the live in-game projector. Every function here
// is pure: inputs are immutable snapshots, tunables arrive as an explicit
// sports.Config, and persistence belongs to the service layer.
package engine

import (
	"math"
	"time"
)

// TeamSnapshot is the slice of a team the engine needs: its identity and
// current rating at the moment an operation runs.
type TeamSnapshot struct {
	ID     uint
	Name   string
	Rating int
	// DefaultRating marks a team that has never been graded this lifetime.
	DefaultRating bool
}

// GameSnapshot is an immutable view of a game's outcome-relevant fields.
type GameSnapshot struct {
	ID          uint
	Season      int
	Date        time.Time
	Postseason  bool
	NeutralSite bool
	HomeScore   int
	AwayScore   int
}

// StatLine is a named, already-typed box-score row. The engine never sees
// provider payloads; ingestion is responsible for producing these.
type StatLine struct {
	Points              int
	FieldGoalsAttempted int
	FreeThrowsAttempted int
	OffensiveRebounds   int
	DefensiveRebounds   int
	Turnovers           int
	// Possessions is the provider-reported count when available;
	// nil means the engine estimates it from the other fields.
	Possessions *float64
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func float64Ptr(v float64) *float64 { return &v }
