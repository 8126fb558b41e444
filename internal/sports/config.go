package sports

import (
	"fmt"
	"math"
	"strings"
)

// MarginStep is one row of the margin-of-victory multiplier table: any
// absolute margin >= MinMargin (and below the next step) uses Multiplier.
type MarginStep struct {
	MinMargin  int
	Multiplier float64
}

// SpreadWeights are the ensemble weights for the three spread components.
// They must sum to 1.0; when a component is unavailable the remaining
// weights are rescaled proportionally.
type SpreadWeights struct {
	Elo        float64
	Efficiency float64
	Form       float64
}

// Config carries every tunable constant for one sport/league. It is an
// immutable value object threaded explicitly into each engine call; the
// engine never reaches into global configuration.
type Config struct {
	Key string

	// Elo
	BaselineRating      int
	HomeAdvantage       float64 // Elo points credited to the home side
	BaseK               float64
	PlayoffMultiplier   float64
	MarginMultipliers   []MarginStep // ascending by MinMargin
	MaxMarginMultiplier float64
	RegressionFraction  float64 // pull toward baseline at season boundary

	// Metrics
	PossessionCoefficient float64 // FTA weight in the Dean Oliver estimate
	MinimumGames          int
	RollingWindow         int

	// Opponent adjustment
	AdjustmentIterations int

	// Prediction
	EloSpreadDivisor     float64
	HomeCourtPoints      float64 // spread points for the home side
	Weights              SpreadWeights
	MarketWeight         float64 // share given to the vegas spread when odds exist
	LeagueAvgEfficiency  float64
	LeagueAvgTempo       float64
	ReferenceSpread      float64 // spread that maps to ReferenceProbability
	ReferenceProbability float64
	FormNetWeight        float64 // spread points per point of recent net-rating edge
	RestDayPoints        float64 // spread points per day of rest advantage
	MaxRestAdvantage     int
	TurnoverPoints       float64 // spread points per turnover-margin edge
	ReboundPoints        float64 // spread points per rebound-margin edge

	// Confidence
	ConfidenceBase          float64
	ConfidenceMetricsBonus  float64 // per side with a metric record
	ConfidenceAdjustedBonus float64 // both sides opponent-adjusted
	ConfidenceEloBonus      float64 // per side with a non-default rating

	// Live projection time model
	RegulationPeriods int
	PeriodSeconds     int
	OvertimeSeconds   int
	MinLiveTotal      float64
	MaxLiveTotal      float64

	// Live probability blending
	LivePointValue      float64 // log-odds per point of margin at tip-off
	LiveLateGain        float64 // quadratic growth of the point value with elapsed fraction
	LiveSpreadPower     float64 // power curve shifting spread weight to the live margin
	BlowoutMargin       int     // margin at which compression can kick in
	CompressionStrength float64 // how hard compression pushes toward certainty

	// Provider status strings mapped to canonical statuses
	StatusAliases map[string]string
}

// Validate returns an error describing the first misconfiguration found.
// A broken sport config is a programming error, not a data gap, so callers
// treat a non-nil result as fatal.
func (c Config) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("sport config missing key")
	}
	if c.BaseK <= 0 {
		return fmt.Errorf("sport %s: base K must be positive, got %v", c.Key, c.BaseK)
	}
	if c.PossessionCoefficient <= 0 {
		return fmt.Errorf("sport %s: possession coefficient must be positive, got %v", c.Key, c.PossessionCoefficient)
	}
	if sum := c.Weights.Elo + c.Weights.Efficiency + c.Weights.Form; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("sport %s: spread weights must sum to 1.0, got %v", c.Key, sum)
	}
	if c.MarketWeight < 0 || c.MarketWeight > 1 {
		return fmt.Errorf("sport %s: market weight must be in [0,1], got %v", c.Key, c.MarketWeight)
	}
	if c.ReferenceSpread <= 0 || c.ReferenceProbability <= 0.5 || c.ReferenceProbability >= 1 {
		return fmt.Errorf("sport %s: logistic calibration requires spread > 0 and probability in (0.5, 1)", c.Key)
	}
	if c.AdjustmentIterations <= 0 {
		return fmt.Errorf("sport %s: adjustment iterations must be positive, got %d", c.Key, c.AdjustmentIterations)
	}
	if c.RegulationPeriods <= 0 || c.PeriodSeconds <= 0 {
		return fmt.Errorf("sport %s: regulation periods and period seconds must be positive", c.Key)
	}
	if c.EloSpreadDivisor <= 0 {
		return fmt.Errorf("sport %s: elo spread divisor must be positive", c.Key)
	}
	if c.LiveSpreadPower <= 0 || c.LivePointValue <= 0 {
		return fmt.Errorf("sport %s: live blending constants must be positive", c.Key)
	}
	return nil
}

// MarginMultiplier returns the K multiplier for an absolute score margin,
// capped at MaxMarginMultiplier. An empty table means margin is ignored.
func (c Config) MarginMultiplier(margin int) float64 {
	if margin < 0 {
		margin = -margin
	}
	mult := 1.0
	for _, step := range c.MarginMultipliers {
		if margin >= step.MinMargin {
			mult = step.Multiplier
		}
	}
	if c.MaxMarginMultiplier > 0 && mult > c.MaxMarginMultiplier {
		mult = c.MaxMarginMultiplier
	}
	return mult
}

// ProbabilityCoefficient derives the logistic divisor from the configured
// reference point: p = 1 / (1 + e^(-spread/coeff)) with
// ReferenceSpread -> ReferenceProbability.
func (c Config) ProbabilityCoefficient() float64 {
	return c.ReferenceSpread / math.Log(c.ReferenceProbability/(1-c.ReferenceProbability))
}

// RegulationSeconds is the full regulation game length.
func (c Config) RegulationSeconds() int {
	return c.RegulationPeriods * c.PeriodSeconds
}

// CanonicalStatus maps a provider status string to a canonical status,
// falling back to the lowercased input when no alias matches.
func (c Config) CanonicalStatus(provider string) string {
	key := strings.ToLower(strings.TrimSpace(provider))
	if mapped, ok := c.StatusAliases[key]; ok {
		return mapped
	}
	return key
}
