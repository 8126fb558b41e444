package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopmetrics/prediction-engine/internal/models"
)

func TestImpliedProbability(t *testing.T) {
	// -110 both ways is the standard vigged coin flip.
	assert.InDelta(t, 110.0/210.0, ImpliedProbability(-110), 1e-9)

	// +200 underdog: 100 / 300.
	assert.InDelta(t, 1.0/3.0, ImpliedProbability(200), 1e-9)

	// -200 favorite: 200 / 300.
	assert.InDelta(t, 2.0/3.0, ImpliedProbability(-200), 1e-9)

	assert.Equal(t, 0.0, ImpliedProbability(0))
}

func oddsPayload(markets ...models.OddsMarket) *models.OddsPayload {
	return &models.OddsPayload{
		Bookmakers: []models.Bookmaker{
			{Key: "testbook", Markets: markets},
		},
	}
}

func TestMarketSpread_PostedSpreadWins(t *testing.T) {
	point := -7.5
	odds := oddsPayload(
		models.OddsMarket{
			Key: models.MarketSpreads,
			Outcomes: []models.OddsOutcome{
				{Name: "Celtics", Price: -110, Point: &point},
			},
		},
		models.OddsMarket{
			Key: models.MarketMoneyline,
			Outcomes: []models.OddsOutcome{
				{Name: "Celtics", Price: -320},
				{Name: "Lakers", Price: 260},
			},
		},
	)

	spread := MarketSpread(odds, "Celtics", "Lakers", flatConfig())
	require.NotNil(t, spread)

	// -7.5 handicap on the home side means home favored by 7.5.
	assert.Equal(t, 7.5, *spread)
}

func TestMarketSpread_DevigsMoneyline(t *testing.T) {
	cfg := flatConfig()
	odds := oddsPayload(models.OddsMarket{
		Key: models.MarketMoneyline,
		Outcomes: []models.OddsOutcome{
			{Name: "Celtics", Price: -150},
			{Name: "Lakers", Price: 130},
		},
	})

	spread := MarketSpread(odds, "Celtics", "Lakers", cfg)
	require.NotNil(t, spread)

	// The favorite comes out with a positive home margin, sized by the
	// same logistic the predictor uses.
	assert.Greater(t, *spread, 0.0)
	assert.Less(t, *spread, cfg.ReferenceSpread)

	// Swapping the sides flips the sign.
	flipped := MarketSpread(odds, "Lakers", "Celtics", cfg)
	require.NotNil(t, flipped)
	assert.InDelta(t, -*spread, *flipped, 0.11)
}

func TestMarketSpread_EvenMoneylineIsPickEm(t *testing.T) {
	odds := oddsPayload(models.OddsMarket{
		Key: models.MarketMoneyline,
		Outcomes: []models.OddsOutcome{
			{Name: "Celtics", Price: -110},
			{Name: "Lakers", Price: -110},
		},
	})

	spread := MarketSpread(odds, "Celtics", "Lakers", flatConfig())
	require.NotNil(t, spread)
	assert.Equal(t, 0.0, *spread)
}

func TestMarketSpread_MissingData(t *testing.T) {
	cfg := flatConfig()

	assert.Nil(t, MarketSpread(nil, "Celtics", "Lakers", cfg))
	assert.Nil(t, MarketSpread(&models.OddsPayload{}, "Celtics", "Lakers", cfg))

	// Moneyline present but one side missing.
	odds := oddsPayload(models.OddsMarket{
		Key: models.MarketMoneyline,
		Outcomes: []models.OddsOutcome{
			{Name: "Celtics", Price: -150},
		},
	})
	assert.Nil(t, MarketSpread(odds, "Celtics", "Lakers", cfg))

	// Spreads market present but no point posted falls through to nothing.
	odds = oddsPayload(models.OddsMarket{
		Key: models.MarketSpreads,
		Outcomes: []models.OddsOutcome{
			{Name: "Celtics", Price: -110},
		},
	})
	assert.Nil(t, MarketSpread(odds, "Celtics", "Lakers", cfg))
}

func TestMarketTotal(t *testing.T) {
	point := 224.5
	odds := oddsPayload(models.OddsMarket{
		Key: models.MarketTotals,
		Outcomes: []models.OddsOutcome{
			{Name: "Over", Price: -110, Point: &point},
			{Name: "Under", Price: -110, Point: &point},
		},
	})

	total := MarketTotal(odds)
	require.NotNil(t, total)
	assert.Equal(t, 224.5, *total)

	assert.Nil(t, MarketTotal(nil))
	assert.Nil(t, MarketTotal(&models.OddsPayload{}))
}
