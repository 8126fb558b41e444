package engine

import (
	"math"

	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/internal/sports"
)

// ImpliedProbability converts American odds to the bookmaker's implied
// win probability (vig included).
func ImpliedProbability(american float64) float64 {
	if american == 0 {
		return 0
	}
	if american > 0 {
		return 100 / (american + 100)
	}
	return -american / (-american + 100)
}

// MarketSpread derives a home-margin spread from an attached odds payload.
// A posted spreads market wins outright; otherwise the moneyline pair is
// de-vigged into a home win probability and inverted through the same
// calibrated logistic the predictor uses. Returns nil when the payload
// carries neither.
func MarketSpread(odds *models.OddsPayload, homeName, awayName string, cfg sports.Config) *float64 {
	if odds == nil {
		return nil
	}

	if market := odds.Market(models.MarketSpreads); market != nil {
		if outcome := market.Outcome(homeName); outcome != nil && outcome.Point != nil {
			// Bookmakers post the handicap: -7.5 means home favored
			// by 7.5, which is +7.5 in home-margin terms.
			return float64Ptr(roundTo(-*outcome.Point, 1))
		}
	}

	market := odds.Market(models.MarketMoneyline)
	if market == nil {
		return nil
	}
	home := market.Outcome(homeName)
	away := market.Outcome(awayName)
	if home == nil || away == nil {
		return nil
	}

	homeImplied := ImpliedProbability(home.Price)
	awayImplied := ImpliedProbability(away.Price)
	overround := homeImplied + awayImplied
	if overround <= 0 {
		return nil
	}
	homeProb := clamp(homeImplied/overround, 0.001, 0.999)

	spread := cfg.ProbabilityCoefficient() * math.Log(homeProb/(1-homeProb))
	return float64Ptr(roundTo(spread, 1))
}

// MarketTotal returns the posted totals line when one exists.
func MarketTotal(odds *models.OddsPayload) *float64 {
	if odds == nil {
		return nil
	}
	market := odds.Market(models.MarketTotals)
	if market == nil {
		return nil
	}
	for i := range market.Outcomes {
		if market.Outcomes[i].Point != nil {
			return float64Ptr(*market.Outcomes[i].Point)
		}
	}
	return nil
}
