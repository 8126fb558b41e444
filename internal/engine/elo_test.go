package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopmetrics/prediction-engine/internal/sports"
)

// flatConfig has no home advantage and no margin table so the Elo math
// is easy to verify by hand.
func flatConfig() sports.Config {
	return sports.Config{
		Key:                  "test",
		BaselineRating:       1500,
		HomeAdvantage:        0,
		BaseK:                20,
		PlayoffMultiplier:    1.25,
		RegressionFraction:   0.25,
		ReferenceSpread:      7.0,
		ReferenceProbability: 0.70,
	}
}

func TestExpectedScore(t *testing.T) {
	// Equal ratings split the expectation evenly.
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-12)

	// A 400-point edge maps to 10:1 odds on the logistic curve.
	assert.InDelta(t, 10.0/11.0, ExpectedScore(1900, 1500), 1e-12)
	assert.InDelta(t, 1.0/11.0, ExpectedScore(1500, 1900), 1e-12)

	// Symmetric by construction.
	sum := ExpectedScore(1620, 1480) + ExpectedScore(1480, 1620)
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestCalculateElo_EvenMatchup(t *testing.T) {
	cfg := flatConfig()
	game := GameSnapshot{HomeScore: 100, AwayScore: 98}
	home := TeamSnapshot{ID: 1, Rating: 1500}
	away := TeamSnapshot{ID: 2, Rating: 1500}

	result := CalculateElo(game, home, away, cfg)

	// Expectation is 0.5, so the winner gains exactly K/2.
	assert.Equal(t, 10.0, result.HomeChange)
	assert.Equal(t, -10.0, result.AwayChange)
	assert.Equal(t, 1510, result.HomeNewRating)
	assert.Equal(t, 1490, result.AwayNewRating)
}

func TestCalculateElo_ZeroSum(t *testing.T) {
	cfg := flatConfig()
	cfg.HomeAdvantage = 100
	cfg.MarginMultipliers = []sports.MarginStep{{MinMargin: 10, Multiplier: 1.25}}
	cfg.MaxMarginMultiplier = 1.25

	game := GameSnapshot{HomeScore: 95, AwayScore: 110}
	result := CalculateElo(game, TeamSnapshot{Rating: 1580}, TeamSnapshot{Rating: 1440}, cfg)

	// The away delta mirrors the home delta exactly, so the ledger rows
	// for one game always cancel.
	assert.Equal(t, -result.HomeChange, result.AwayChange)
	assert.Less(t, result.HomeChange, 0.0)
}

func TestCalculateElo_UpsetMovesMoreThanExpectedWin(t *testing.T) {
	cfg := flatConfig()
	favorite := TeamSnapshot{ID: 1, Rating: 1700}
	underdog := TeamSnapshot{ID: 2, Rating: 1400}

	expected := CalculateElo(GameSnapshot{HomeScore: 100, AwayScore: 90}, favorite, underdog, cfg)
	upset := CalculateElo(GameSnapshot{HomeScore: 90, AwayScore: 100}, favorite, underdog, cfg)

	// Beating a team you were supposed to beat is worth little; losing
	// to it costs the difference.
	assert.Greater(t, expected.HomeChange, 0.0)
	assert.Less(t, upset.HomeChange, 0.0)
	assert.Greater(t, -upset.HomeChange, expected.HomeChange)
	assert.InDelta(t, cfg.BaseK, expected.HomeChange-upset.HomeChange, 1e-9)
}

func TestCalculateElo_HomeAdvantageShiftsExpectation(t *testing.T) {
	cfg := flatConfig()
	cfg.HomeAdvantage = 100

	game := GameSnapshot{HomeScore: 100, AwayScore: 90}
	neutral := game
	neutral.NeutralSite = true

	home := TeamSnapshot{Rating: 1500}
	away := TeamSnapshot{Rating: 1500}

	withEdge := CalculateElo(game, home, away, cfg)
	onNeutral := CalculateElo(neutral, home, away, cfg)

	// The home side is expected to win at home, so an actual home win
	// moves the ratings less than the same result on a neutral floor.
	assert.Less(t, withEdge.HomeChange, onNeutral.HomeChange)
	assert.Equal(t, 10.0, onNeutral.HomeChange)
}

func TestCalculateElo_PlayoffAndMarginMultipliers(t *testing.T) {
	cfg := flatConfig()
	cfg.MarginMultipliers = []sports.MarginStep{
		{MinMargin: 5, Multiplier: 1.1},
		{MinMargin: 10, Multiplier: 1.25},
		{MinMargin: 15, Multiplier: 1.4},
		{MinMargin: 20, Multiplier: 1.5},
	}
	cfg.MaxMarginMultiplier = 1.5

	home := TeamSnapshot{Rating: 1500}
	away := TeamSnapshot{Rating: 1500}

	narrow := CalculateElo(GameSnapshot{HomeScore: 100, AwayScore: 98}, home, away, cfg)
	blowout := CalculateElo(GameSnapshot{HomeScore: 120, AwayScore: 98}, home, away, cfg)
	playoff := CalculateElo(GameSnapshot{HomeScore: 100, AwayScore: 98, Postseason: true}, home, away, cfg)

	assert.Equal(t, 10.0, narrow.HomeChange)
	// 22-point margin hits the capped 1.5 step: 20 * 1.5 * 0.5 = 15.
	assert.Equal(t, 15.0, blowout.HomeChange)
	// Postseason scales K by 1.25: 20 * 1.25 * 0.5 = 12.5.
	assert.Equal(t, 12.5, playoff.HomeChange)
}

func TestCalculateElo_RoundsToOneDecimal(t *testing.T) {
	cfg := flatConfig()
	result := CalculateElo(GameSnapshot{HomeScore: 100, AwayScore: 90},
		TeamSnapshot{Rating: 1537}, TeamSnapshot{Rating: 1481}, cfg)

	assert.Equal(t, result.HomeChange, roundTo(result.HomeChange, 1))
	assert.Equal(t, result.AwayChange, roundTo(result.AwayChange, 1))
}

func TestMarginMultiplier_StepTable(t *testing.T) {
	cfg, err := sports.ProfileFor("nba")
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.MarginMultiplier(2))
	assert.Equal(t, 1.1, cfg.MarginMultiplier(5))
	assert.Equal(t, 1.25, cfg.MarginMultiplier(12))
	assert.Equal(t, 1.5, cfg.MarginMultiplier(40))
	// Sign of the margin never matters.
	assert.Equal(t, cfg.MarginMultiplier(13), cfg.MarginMultiplier(-13))
}

func TestRegressRating(t *testing.T) {
	cfg := flatConfig()

	// A quarter of the distance back toward 1500.
	assert.Equal(t, 1575, RegressRating(1600, cfg))
	assert.Equal(t, 1425, RegressRating(1400, cfg))
	assert.Equal(t, 1500, RegressRating(1500, cfg))
}
