package engine

import (
	"github.com/hoopmetrics/prediction-engine/internal/sports"
	"gonum.org/v1/gonum/stat"
)

// AdjustTeam is one season row in the opponent adjustment population.
// Raw values come from CalculateMetrics; the Adj fields are written in
// place by AdjustMetrics.
type AdjustTeam struct {
	TeamID       uint
	GamesPlayed  int
	MeetsMinimum bool

	RawOffense float64
	RawDefense float64
	RawTempo   float64

	AdjOffense float64
	AdjDefense float64
	AdjNet     float64
	AdjTempo   float64
}

// AdjustGame is one completed game with resolvable possessions on both
// sides, feeding the game-level efficiency samples the solver re-weights.
type AdjustGame struct {
	HomeID          uint
	AwayID          uint
	HomePoints      int
	AwayPoints      int
	HomePossessions float64
	AwayPossessions float64
}

// gameSample is one team's view of one game.
type gameSample struct {
	opponent uint
	offense  float64 // points per 100 possessions produced
	defense  float64 // points per 100 possessions allowed
	pace     float64 // own possessions
}

// AdjustMetrics runs the fixed-iteration opponent adjustment over one
// season's teams and games, mutating the Adj fields in place. It returns
// the number of iterations run (0 when nothing qualified to adjust).
//
// Each pass recomputes a team's adjusted offense from the efficiency it
// produced in each game, scaled by the opponent's current adjusted
// defensive strength relative to the normalized league average of 100,
// then symmetrically for defense and analogously for tempo against the
// opponents' adjusted pace. After every pass the qualifying-population
// means are renormalized back to exactly 100 (and tempo to the raw league
// mean) to stop drift. Teams under the minimum-games threshold stay out
// of the normalization population but still receive adjusted values
// computed against it.
func AdjustMetrics(teams []*AdjustTeam, games []AdjustGame, cfg sports.Config) int {
	var qualifying []*AdjustTeam
	for _, t := range teams {
		if t.MeetsMinimum {
			qualifying = append(qualifying, t)
		}
	}
	if len(qualifying) == 0 {
		return 0
	}

	samples := collectSamples(teams, games)

	// Seed with raw values scaled so the qualifying means sit at 100
	// (tempo keeps its natural scale, anchored to the raw league mean).
	offScale := 100 / meanOf(qualifying, func(t *AdjustTeam) float64 { return t.RawOffense })
	defScale := 100 / meanOf(qualifying, func(t *AdjustTeam) float64 { return t.RawDefense })
	leagueTempo := meanOf(qualifying, func(t *AdjustTeam) float64 { return t.RawTempo })
	for _, t := range teams {
		t.AdjOffense = t.RawOffense * offScale
		t.AdjDefense = t.RawDefense * defScale
		t.AdjTempo = t.RawTempo
	}

	index := make(map[uint]*AdjustTeam, len(teams))
	for _, t := range teams {
		index[t.TeamID] = t
	}

	for iter := 0; iter < cfg.AdjustmentIterations; iter++ {
		nextOff := make(map[uint]float64, len(teams))
		nextDef := make(map[uint]float64, len(teams))
		nextTempo := make(map[uint]float64, len(teams))

		for _, t := range teams {
			lines := samples[t.TeamID]
			if len(lines) == 0 {
				nextOff[t.TeamID] = t.AdjOffense
				nextDef[t.TeamID] = t.AdjDefense
				nextTempo[t.TeamID] = t.AdjTempo
				continue
			}

			var offSum, defSum, tempoSum float64
			for _, line := range lines {
				oppDef, oppOff, oppTempo := 100.0, 100.0, leagueTempo
				if opp, ok := index[line.opponent]; ok {
					oppDef = opp.AdjDefense
					oppOff = opp.AdjOffense
					oppTempo = opp.AdjTempo
				}
				// Production against a strong (low) adjusted defense
				// counts for more than the same number against a weak one.
				offSum += line.offense * 100 / safeDiv(oppDef)
				defSum += line.defense * 100 / safeDiv(oppOff)
				tempoSum += line.pace * leagueTempo / safeDiv(oppTempo)
			}
			n := float64(len(lines))
			nextOff[t.TeamID] = offSum / n
			nextDef[t.TeamID] = defSum / n
			nextTempo[t.TeamID] = tempoSum / n
		}

		for _, t := range teams {
			t.AdjOffense = nextOff[t.TeamID]
			t.AdjDefense = nextDef[t.TeamID]
			t.AdjTempo = nextTempo[t.TeamID]
		}

		// Renormalize the qualifying means to stop drift.
		offNorm := 100 / meanOf(qualifying, func(t *AdjustTeam) float64 { return t.AdjOffense })
		defNorm := 100 / meanOf(qualifying, func(t *AdjustTeam) float64 { return t.AdjDefense })
		tempoNorm := leagueTempo / meanOf(qualifying, func(t *AdjustTeam) float64 { return t.AdjTempo })
		for _, t := range teams {
			t.AdjOffense *= offNorm
			t.AdjDefense *= defNorm
			t.AdjTempo *= tempoNorm
		}
	}

	for _, t := range teams {
		t.AdjOffense = roundTo(t.AdjOffense, 2)
		t.AdjDefense = roundTo(t.AdjDefense, 2)
		t.AdjTempo = roundTo(t.AdjTempo, 2)
		t.AdjNet = roundTo(t.AdjOffense-t.AdjDefense, 2)
	}

	return cfg.AdjustmentIterations
}

func collectSamples(teams []*AdjustTeam, games []AdjustGame) map[uint][]gameSample {
	known := make(map[uint]bool, len(teams))
	for _, t := range teams {
		known[t.TeamID] = true
	}

	samples := make(map[uint][]gameSample, len(teams))
	for _, g := range games {
		if g.HomePossessions <= 0 || g.AwayPossessions <= 0 {
			continue
		}
		homeOff := 100 * float64(g.HomePoints) / g.HomePossessions
		awayOff := 100 * float64(g.AwayPoints) / g.AwayPossessions
		if known[g.HomeID] {
			samples[g.HomeID] = append(samples[g.HomeID], gameSample{
				opponent: g.AwayID,
				offense:  homeOff,
				defense:  awayOff,
				pace:     g.HomePossessions,
			})
		}
		if known[g.AwayID] {
			samples[g.AwayID] = append(samples[g.AwayID], gameSample{
				opponent: g.HomeID,
				offense:  awayOff,
				defense:  homeOff,
				pace:     g.AwayPossessions,
			})
		}
	}
	return samples
}

func meanOf(teams []*AdjustTeam, field func(*AdjustTeam) float64) float64 {
	values := make([]float64, len(teams))
	for i, t := range teams {
		values[i] = field(t)
	}
	m := stat.Mean(values, nil)
	if m == 0 {
		return 1
	}
	return m
}

// safeDiv guards the re-weighting divisors against degenerate zero
// strengths from pathological inputs.
func safeDiv(v float64) float64 {
	if v <= 0 {
		return 100
	}
	return v
}
