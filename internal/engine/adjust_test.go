package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopmetrics/prediction-engine/internal/sports"
)

func adjustConfig() sports.Config {
	cfg := flatConfig()
	cfg.AdjustmentIterations = 10
	return cfg
}

func TestAdjustMetrics_NoQualifyingTeams(t *testing.T) {
	teams := []*AdjustTeam{
		{TeamID: 1, MeetsMinimum: false, RawOffense: 110, RawDefense: 105, RawTempo: 98},
	}

	iterations := AdjustMetrics(teams, nil, adjustConfig())

	assert.Equal(t, 0, iterations)
	assert.Equal(t, 0.0, teams[0].AdjOffense)
}

func TestAdjustMetrics_MeansNormalizeToHundred(t *testing.T) {
	teams := []*AdjustTeam{
		{TeamID: 1, MeetsMinimum: true, RawOffense: 118, RawDefense: 104, RawTempo: 101},
		{TeamID: 2, MeetsMinimum: true, RawOffense: 112, RawDefense: 110, RawTempo: 97},
		{TeamID: 3, MeetsMinimum: true, RawOffense: 104, RawDefense: 112, RawTempo: 95},
		{TeamID: 4, MeetsMinimum: true, RawOffense: 98, RawDefense: 118, RawTempo: 103},
	}
	games := roundRobin(teams)

	iterations := AdjustMetrics(teams, games, adjustConfig())
	require.Equal(t, 10, iterations)

	var offSum, defSum, tempoSum float64
	for _, team := range teams {
		offSum += team.AdjOffense
		defSum += team.AdjDefense
		tempoSum += team.AdjTempo
	}
	n := float64(len(teams))

	// Final per-team rounding is the only thing moving the means off 100.
	assert.InDelta(t, 100.0, offSum/n, 0.01)
	assert.InDelta(t, 100.0, defSum/n, 0.01)
	// Tempo is anchored to the raw league mean, not 100.
	assert.InDelta(t, 99.0, tempoSum/n, 0.01)

	for _, team := range teams {
		assert.InDelta(t, team.AdjOffense-team.AdjDefense, team.AdjNet, 1e-9)
	}
}

func TestAdjustMetrics_RewardsHarderSchedule(t *testing.T) {
	// Teams 1 and 2 post identical raw offense, but team 1 earned it
	// against the stingy team 3 while team 2 earned it against the leaky
	// team 4. Team 3 allows 92.5 per 100 on the season, team 4 allows 100.
	teams := []*AdjustTeam{
		{TeamID: 1, MeetsMinimum: true, RawOffense: 105, RawDefense: 95, RawTempo: 100},
		{TeamID: 2, MeetsMinimum: true, RawOffense: 105, RawDefense: 95, RawTempo: 100},
		{TeamID: 3, MeetsMinimum: true, RawOffense: 95, RawDefense: 92.5, RawTempo: 100},
		{TeamID: 4, MeetsMinimum: true, RawOffense: 87.5, RawDefense: 100, RawTempo: 100},
	}

	games := []AdjustGame{
		{HomeID: 1, AwayID: 3, HomePoints: 105, AwayPoints: 95, HomePossessions: 100, AwayPossessions: 100},
		{HomeID: 1, AwayID: 3, HomePoints: 105, AwayPoints: 95, HomePossessions: 100, AwayPossessions: 100},
		{HomeID: 2, AwayID: 4, HomePoints: 105, AwayPoints: 95, HomePossessions: 100, AwayPossessions: 100},
		{HomeID: 2, AwayID: 4, HomePoints: 105, AwayPoints: 95, HomePossessions: 100, AwayPossessions: 100},
		{HomeID: 3, AwayID: 4, HomePoints: 95, AwayPoints: 80, HomePossessions: 100, AwayPossessions: 100},
		{HomeID: 3, AwayID: 4, HomePoints: 95, AwayPoints: 80, HomePossessions: 100, AwayPossessions: 100},
	}

	AdjustMetrics(teams, games, adjustConfig())

	// Same production against a better defense is worth more.
	assert.Greater(t, teams[0].AdjOffense, teams[1].AdjOffense)
	// And allowing the same points to a better offense costs less.
	assert.Less(t, teams[0].AdjDefense, teams[1].AdjDefense)
}

func TestAdjustMetrics_SubMinimumTeamsAdjustedButNotNormalized(t *testing.T) {
	teams := []*AdjustTeam{
		{TeamID: 1, MeetsMinimum: true, RawOffense: 112, RawDefense: 100, RawTempo: 100},
		{TeamID: 2, MeetsMinimum: true, RawOffense: 100, RawDefense: 112, RawTempo: 100},
		// Early-season team: too few games to shape the league average.
		{TeamID: 3, MeetsMinimum: false, RawOffense: 130, RawDefense: 95, RawTempo: 104},
	}
	games := roundRobin(teams)

	AdjustMetrics(teams, games, adjustConfig())

	// The qualifying mean sits at 100 even though the outlier would have
	// dragged a naive mean well above it.
	qualifyingMean := (teams[0].AdjOffense + teams[1].AdjOffense) / 2
	assert.InDelta(t, 100.0, qualifyingMean, 0.01)

	// The sub-minimum team still receives adjusted values.
	assert.NotZero(t, teams[2].AdjOffense)
	assert.NotZero(t, teams[2].AdjDefense)
	assert.NotZero(t, teams[2].AdjTempo)
}

func TestAdjustMetrics_SkipsGamesWithoutPossessions(t *testing.T) {
	teams := []*AdjustTeam{
		{TeamID: 1, MeetsMinimum: true, RawOffense: 105, RawDefense: 100, RawTempo: 98},
		{TeamID: 2, MeetsMinimum: true, RawOffense: 100, RawDefense: 105, RawTempo: 98},
	}
	games := []AdjustGame{
		{HomeID: 1, AwayID: 2, HomePoints: 105, AwayPoints: 100, HomePossessions: 0, AwayPossessions: 100},
	}

	iterations := AdjustMetrics(teams, games, adjustConfig())

	// The lone game was unusable, so teams keep their seeded values.
	assert.Equal(t, 10, iterations)
	assert.InDelta(t, 102.44, teams[0].AdjOffense, 0.01)
}

// roundRobin builds one home game for every ordered team pair, each team
// producing points at its raw offensive rate over 100 possessions.
func roundRobin(teams []*AdjustTeam) []AdjustGame {
	var games []AdjustGame
	for i := range teams {
		for j := range teams {
			if i == j {
				continue
			}
			games = append(games, AdjustGame{
				HomeID:          teams[i].TeamID,
				AwayID:          teams[j].TeamID,
				HomePoints:      int(teams[i].RawOffense),
				AwayPoints:      int(teams[j].RawOffense),
				HomePossessions: 100,
				AwayPossessions: 100,
			})
		}
	}
	return games
}
