package sports

import (
	"fmt"
	"strings"
)

// Built-in league profiles. Constants follow the published conventions for
// each league (Dean Oliver possession coefficients, FiveThirtyEight-style
// Elo parameters); deployments can override any of them by registering a
// replacement profile before the engine starts.
var profiles = map[string]Config{
	"nba": {
		Key:                 "nba",
		BaselineRating:      1500,
		HomeAdvantage:       100,
		BaseK:               20,
		PlayoffMultiplier:   1.25,
		MarginMultipliers:   []MarginStep{{5, 1.1}, {10, 1.25}, {15, 1.4}, {20, 1.5}},
		MaxMarginMultiplier: 1.5,
		RegressionFraction:  0.25,

		PossessionCoefficient: 0.44,
		MinimumGames:          10,
		RollingWindow:         10,
		AdjustmentIterations:  10,

		EloSpreadDivisor:     25,
		HomeCourtPoints:      3.0,
		Weights:              SpreadWeights{Elo: 0.4, Efficiency: 0.4, Form: 0.2},
		MarketWeight:         0.3,
		LeagueAvgEfficiency:  112.0,
		LeagueAvgTempo:       99.0,
		ReferenceSpread:      7.0,
		ReferenceProbability: 0.70,
		FormNetWeight:        0.25,
		RestDayPoints:        0.6,
		MaxRestAdvantage:     3,
		TurnoverPoints:       0.5,
		ReboundPoints:        0.25,

		ConfidenceBase:          50,
		ConfidenceMetricsBonus:  12.5,
		ConfidenceAdjustedBonus: 10,
		ConfidenceEloBonus:      7.5,

		RegulationPeriods:   4,
		PeriodSeconds:       720, // 12-minute quarters
		OvertimeSeconds:     300,
		MinLiveTotal:        150,
		MaxLiveTotal:        320,
		LivePointValue:      0.08,
		LiveLateGain:        0.9,
		LiveSpreadPower:     1.5,
		BlowoutMargin:       15,
		CompressionStrength: 0.5,

		StatusAliases: basketballStatuses,
	},
	"wnba": {
		Key:                 "wnba",
		BaselineRating:      1500,
		HomeAdvantage:       80,
		BaseK:               24,
		PlayoffMultiplier:   1.25,
		MarginMultipliers:   []MarginStep{{5, 1.1}, {10, 1.25}, {15, 1.4}, {20, 1.5}},
		MaxMarginMultiplier: 1.5,
		RegressionFraction:  0.25,

		PossessionCoefficient: 0.44,
		MinimumGames:          8,
		RollingWindow:         8,
		AdjustmentIterations:  10,

		EloSpreadDivisor:     26,
		HomeCourtPoints:      2.5,
		Weights:              SpreadWeights{Elo: 0.4, Efficiency: 0.4, Form: 0.2},
		MarketWeight:         0.3,
		LeagueAvgEfficiency:  102.0,
		LeagueAvgTempo:       82.0,
		ReferenceSpread:      7.0,
		ReferenceProbability: 0.70,
		FormNetWeight:        0.25,
		RestDayPoints:        0.6,
		MaxRestAdvantage:     3,
		TurnoverPoints:       0.5,
		ReboundPoints:        0.25,

		ConfidenceBase:          50,
		ConfidenceMetricsBonus:  12.5,
		ConfidenceAdjustedBonus: 10,
		ConfidenceEloBonus:      7.5,

		RegulationPeriods:   4,
		PeriodSeconds:       600, // 10-minute quarters
		OvertimeSeconds:     300,
		MinLiveTotal:        120,
		MaxLiveTotal:        240,
		LivePointValue:      0.09,
		LiveLateGain:        0.9,
		LiveSpreadPower:     1.5,
		BlowoutMargin:       15,
		CompressionStrength: 0.5,

		StatusAliases: basketballStatuses,
	},
	"ncaab": {
		Key:                 "ncaab",
		BaselineRating:      1500,
		HomeAdvantage:       110,
		BaseK:               30,
		PlayoffMultiplier:   1.3,
		MarginMultipliers:   []MarginStep{{6, 1.1}, {12, 1.25}, {18, 1.4}, {24, 1.5}},
		MaxMarginMultiplier: 1.5,
		RegressionFraction:  0.4, // heavy roster turnover year to year

		PossessionCoefficient: 0.475,
		MinimumGames:          8,
		RollingWindow:         8,
		AdjustmentIterations:  12,

		EloSpreadDivisor:     23,
		HomeCourtPoints:      3.5,
		Weights:              SpreadWeights{Elo: 0.35, Efficiency: 0.45, Form: 0.2},
		MarketWeight:         0.3,
		LeagueAvgEfficiency:  104.0,
		LeagueAvgTempo:       68.0,
		ReferenceSpread:      7.0,
		ReferenceProbability: 0.72,
		FormNetWeight:        0.25,
		RestDayPoints:        0.4,
		MaxRestAdvantage:     4,
		TurnoverPoints:       0.5,
		ReboundPoints:        0.25,

		ConfidenceBase:          50,
		ConfidenceMetricsBonus:  12.5,
		ConfidenceAdjustedBonus: 10,
		ConfidenceEloBonus:      7.5,

		RegulationPeriods:   2,
		PeriodSeconds:       1200, // 20-minute halves
		OvertimeSeconds:     300,
		MinLiveTotal:        90,
		MaxLiveTotal:        220,
		LivePointValue:      0.1,
		LiveLateGain:        0.9,
		LiveSpreadPower:     1.5,
		BlowoutMargin:       15,
		CompressionStrength: 0.5,

		StatusAliases: basketballStatuses,
	},
	"ncaaw": {
		Key:                 "ncaaw",
		BaselineRating:      1500,
		HomeAdvantage:       110,
		BaseK:               30,
		PlayoffMultiplier:   1.3,
		MarginMultipliers:   []MarginStep{{6, 1.1}, {12, 1.25}, {18, 1.4}, {24, 1.5}},
		MaxMarginMultiplier: 1.5,
		RegressionFraction:  0.4,

		// Women's college game uses the lighter FTA weight
		PossessionCoefficient: 0.40,
		MinimumGames:          8,
		RollingWindow:         8,
		AdjustmentIterations:  12,

		EloSpreadDivisor:     23,
		HomeCourtPoints:      3.5,
		Weights:              SpreadWeights{Elo: 0.35, Efficiency: 0.45, Form: 0.2},
		MarketWeight:         0.3,
		LeagueAvgEfficiency:  95.0,
		LeagueAvgTempo:       70.0,
		ReferenceSpread:      7.0,
		ReferenceProbability: 0.72,
		FormNetWeight:        0.25,
		RestDayPoints:        0.4,
		MaxRestAdvantage:     4,
		TurnoverPoints:       0.5,
		ReboundPoints:        0.25,

		ConfidenceBase:          50,
		ConfidenceMetricsBonus:  12.5,
		ConfidenceAdjustedBonus: 10,
		ConfidenceEloBonus:      7.5,

		RegulationPeriods:   4,
		PeriodSeconds:       600, // 10-minute quarters
		OvertimeSeconds:     300,
		MinLiveTotal:        80,
		MaxLiveTotal:        200,
		LivePointValue:      0.1,
		LiveLateGain:        0.9,
		LiveSpreadPower:     1.5,
		BlowoutMargin:       15,
		CompressionStrength: 0.5,

		StatusAliases: basketballStatuses,
	},
	"nfl": {
		Key:                 "nfl",
		BaselineRating:      1500,
		HomeAdvantage:       65,
		BaseK:               20,
		MarginMultipliers:   []MarginStep{{8, 1.2}, {15, 1.4}, {22, 1.6}},
		MaxMarginMultiplier: 1.6,
		PlayoffMultiplier:   1.2,
		RegressionFraction:  0.33,

		// Not used for football possessions but must be positive for
		// config validation; drives-based sports report possessions.
		PossessionCoefficient: 0.44,
		MinimumGames:          4,
		RollingWindow:         5,
		AdjustmentIterations:  8,

		EloSpreadDivisor:     25,
		HomeCourtPoints:      2.0,
		Weights:              SpreadWeights{Elo: 0.5, Efficiency: 0.3, Form: 0.2},
		MarketWeight:         0.35,
		LeagueAvgEfficiency:  185.0, // points per 100 drives
		LeagueAvgTempo:       11.0,  // drives per game
		ReferenceSpread:      6.0,
		ReferenceProbability: 0.70,
		FormNetWeight:        0.03,
		RestDayPoints:        0.25,
		MaxRestAdvantage:     7,
		TurnoverPoints:       1.5,
		ReboundPoints:        0,

		ConfidenceBase:          50,
		ConfidenceMetricsBonus:  12.5,
		ConfidenceAdjustedBonus: 10,
		ConfidenceEloBonus:      7.5,

		RegulationPeriods:   4,
		PeriodSeconds:       900, // 15-minute quarters
		OvertimeSeconds:     600,
		MinLiveTotal:        20,
		MaxLiveTotal:        90,
		LivePointValue:      0.12,
		LiveLateGain:        1.0,
		LiveSpreadPower:     1.5,
		BlowoutMargin:       17,
		CompressionStrength: 0.5,

		StatusAliases: footballStatuses,
	},
}

var basketballStatuses = map[string]string{
	"scheduled":     "scheduled",
	"pre":           "scheduled",
	"1st quarter":   "in_progress",
	"2nd quarter":   "in_progress",
	"3rd quarter":   "in_progress",
	"4th quarter":   "in_progress",
	"1st half":      "in_progress",
	"2nd half":      "in_progress",
	"overtime":      "in_progress",
	"halftime":      "halftime",
	"end of period": "end_period",
	"final":         "final",
	"final/ot":      "final",
	"f":             "final",
}

var footballStatuses = map[string]string{
	"scheduled":     "scheduled",
	"pre":           "scheduled",
	"1st quarter":   "in_progress",
	"2nd quarter":   "in_progress",
	"3rd quarter":   "in_progress",
	"4th quarter":   "in_progress",
	"overtime":      "in_progress",
	"halftime":      "halftime",
	"end of period": "end_period",
	"final":         "final",
	"final/ot":      "final",
	"f":             "final",
}

// ProfileFor returns the config for a sport key. An unknown sport is a
// misconfiguration, not a data gap, so it returns an error the caller
// should treat as fatal.
func ProfileFor(key string) (Config, error) {
	cfg, ok := profiles[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Config{}, fmt.Errorf("no sport profile registered for %q", key)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Register installs or replaces a profile. Intended for deployments that
// tune constants without forking the built-ins.
func Register(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	profiles[cfg.Key] = cfg
	return nil
}

// Keys returns the registered sport keys.
func Keys() []string {
	keys := make([]string, 0, len(profiles))
	for k := range profiles {
		keys = append(keys, k)
	}
	return keys
}
