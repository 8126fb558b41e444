package engine

import (
	"math"

	"github.com/hoopmetrics/prediction-engine/internal/sports"
)

// EloResult is the outcome of grading one completed game.
type EloResult struct {
	HomeChange    float64 `json:"home_change"`
	AwayChange    float64 `json:"away_change"`
	HomeNewRating int     `json:"home_new_elo"`
	AwayNewRating int     `json:"away_new_elo"`
	// Skipped is set by the service layer when the idempotency guard
	// found an existing history row for this game.
	Skipped bool `json:"skipped"`
}

// ExpectedScore is the logistic win expectation for a side holding
// effectiveRating against opponentRating on a 400-point curve.
func ExpectedScore(effectiveRating, opponentRating float64) float64 {
	return 1 / (1 + math.Pow(10, (opponentRating-effectiveRating)/400))
}

// CalculateElo grades a completed game and returns both teams' deltas and
// new ratings. The caller guarantees the game is final and both teams
// resolved; preconditions live at the service boundary so this stays a
// total function over its inputs.
//
// K = baseK * playoffMultiplier (postseason only) * marginMultiplier, the
// margin multiplier coming from the sport's step table. The away delta is
// the exact mirror of the home delta: K and the expectations are shared
// game-level quantities, so computing one side and negating it avoids any
// drift between the two ledger rows.
func CalculateElo(game GameSnapshot, home, away TeamSnapshot, cfg sports.Config) EloResult {
	homeAdvantage := cfg.HomeAdvantage
	if game.NeutralSite {
		homeAdvantage = 0
	}

	expectedHome := ExpectedScore(float64(home.Rating)+homeAdvantage, float64(away.Rating))

	actualHome := 0.0
	if game.HomeScore > game.AwayScore {
		actualHome = 1.0
	}

	k := cfg.BaseK
	if game.Postseason {
		k *= cfg.PlayoffMultiplier
	}
	k *= cfg.MarginMultiplier(game.HomeScore - game.AwayScore)

	homeChange := roundTo(k*(actualHome-expectedHome), 1)
	awayChange := -homeChange

	return EloResult{
		HomeChange:    homeChange,
		AwayChange:    awayChange,
		HomeNewRating: int(math.Round(float64(home.Rating) + homeChange)),
		AwayNewRating: int(math.Round(float64(away.Rating) + awayChange)),
	}
}

// RegressRating pulls a rating a configured fraction of the way back
// toward the sport baseline. Season-boundary operation; never applied
// per game.
func RegressRating(rating int, cfg sports.Config) int {
	baseline := float64(cfg.BaselineRating)
	regressed := float64(rating) + (baseline-float64(rating))*cfg.RegressionFraction
	return int(math.Round(regressed))
}
