package engine

import (
	"github.com/hoopmetrics/prediction-engine/internal/sports"
	"gonum.org/v1/gonum/stat"
)

// MetricGame pairs one completed game with the team's own and the
// opponent's stat lines, ordered oldest first by the caller.
type MetricGame struct {
	GameID uint
	Home   bool
	Own    StatLine
	Opp    StatLine
	// OpponentRating is the opponent's current Elo, nil when the
	// opponent could not be resolved.
	OpponentRating *int
}

// SplitMetrics are the core formulas restricted to a subset of games
// (rolling window, home-only, away-only).
type SplitMetrics struct {
	OffensiveEfficiency float64
	DefensiveEfficiency float64
	NetRating           float64
	Tempo               float64
	Games               int
}

// MetricResult is a team's derived season record before opponent
// adjustment.
type MetricResult struct {
	GamesPlayed         int
	MeetsMinimum        bool
	OffensiveEfficiency float64
	DefensiveEfficiency float64
	NetRating           float64
	Tempo               float64
	// StrengthOfSchedule is the mean opponent Elo, nil when no
	// opponent had a resolvable rating.
	StrengthOfSchedule *float64

	// Per-game tendency margins feeding the prediction form component
	TurnoverMargin float64 // forced minus committed
	ReboundMargin  float64

	Rolling *SplitMetrics
	Home    *SplitMetrics
	Away    *SplitMetrics
}

// EstimatePossessions returns the provider-reported possession count when
// present, otherwise the Dean Oliver estimate
// FGA - OREB + TO + coeff*FTA with the sport's FTA coefficient.
func EstimatePossessions(line StatLine, coefficient float64) float64 {
	if line.Possessions != nil {
		return *line.Possessions
	}
	return float64(line.FieldGoalsAttempted-line.OffensiveRebounds+line.Turnovers) +
		coefficient*float64(line.FreeThrowsAttempted)
}

// CalculateMetrics aggregates a team's completed games into per-100
// efficiencies, tempo and strength of schedule. Returns nil when there is
// nothing to aggregate; sparse data is an expected condition, not an error.
func CalculateMetrics(games []MetricGame, cfg sports.Config) *MetricResult {
	if len(games) == 0 {
		return nil
	}

	core := splitFor(games, cfg)
	if core == nil {
		return nil
	}

	result := &MetricResult{
		GamesPlayed:         core.Games,
		MeetsMinimum:        core.Games >= cfg.MinimumGames,
		OffensiveEfficiency: core.OffensiveEfficiency,
		DefensiveEfficiency: core.DefensiveEfficiency,
		NetRating:           core.NetRating,
		Tempo:               core.Tempo,
		StrengthOfSchedule:  strengthOfSchedule(games),
	}

	var toDiff, rebDiff float64
	for _, g := range games {
		toDiff += float64(g.Opp.Turnovers - g.Own.Turnovers)
		rebDiff += float64((g.Own.OffensiveRebounds + g.Own.DefensiveRebounds) -
			(g.Opp.OffensiveRebounds + g.Opp.DefensiveRebounds))
	}
	result.TurnoverMargin = roundTo(toDiff/float64(len(games)), 2)
	result.ReboundMargin = roundTo(rebDiff/float64(len(games)), 2)

	if cfg.RollingWindow > 0 && len(games) > cfg.RollingWindow {
		result.Rolling = splitFor(games[len(games)-cfg.RollingWindow:], cfg)
	} else if cfg.RollingWindow > 0 {
		result.Rolling = core
	}

	var homeGames, awayGames []MetricGame
	for _, g := range games {
		if g.Home {
			homeGames = append(homeGames, g)
		} else {
			awayGames = append(awayGames, g)
		}
	}
	result.Home = splitFor(homeGames, cfg)
	result.Away = splitFor(awayGames, cfg)

	return result
}

// splitFor runs the core formulas over a slice of games. All divisions
// guard zero denominators by dropping to 0 rather than propagating NaN.
func splitFor(games []MetricGame, cfg sports.Config) *SplitMetrics {
	if len(games) == 0 {
		return nil
	}

	var ownPoints, oppPoints float64
	var ownPoss, oppPoss float64
	for _, g := range games {
		ownPoints += float64(g.Own.Points)
		oppPoints += float64(g.Opp.Points)
		ownPoss += EstimatePossessions(g.Own, cfg.PossessionCoefficient)
		oppPoss += EstimatePossessions(g.Opp, cfg.PossessionCoefficient)
	}

	split := &SplitMetrics{Games: len(games)}
	if ownPoss > 0 {
		split.OffensiveEfficiency = roundTo(100*ownPoints/ownPoss, 2)
		split.Tempo = roundTo(ownPoss/float64(len(games)), 2)
	}
	if oppPoss > 0 {
		split.DefensiveEfficiency = roundTo(100*oppPoints/oppPoss, 2)
	}
	split.NetRating = roundTo(split.OffensiveEfficiency-split.DefensiveEfficiency, 2)
	return split
}

func strengthOfSchedule(games []MetricGame) *float64 {
	var ratings []float64
	for _, g := range games {
		if g.OpponentRating != nil {
			ratings = append(ratings, float64(*g.OpponentRating))
		}
	}
	if len(ratings) == 0 {
		return nil
	}
	return float64Ptr(roundTo(stat.Mean(ratings, nil), 1))
}
