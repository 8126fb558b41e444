package sports

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltInProfilesValidate(t *testing.T) {
	for _, key := range Keys() {
		cfg, err := ProfileFor(key)
		require.NoError(t, err, "profile %s", key)
		assert.Equal(t, key, cfg.Key)
	}
}

func TestProfileFor_UnknownSport(t *testing.T) {
	_, err := ProfileFor("cricket")
	assert.Error(t, err)

	// Key lookup is case- and whitespace-insensitive.
	cfg, err := ProfileFor("  NBA ")
	require.NoError(t, err)
	assert.Equal(t, "nba", cfg.Key)
}

func TestRegister_RejectsInvalidConfig(t *testing.T) {
	bad := Config{Key: "custom"}
	assert.Error(t, Register(bad))

	good, err := ProfileFor("nba")
	require.NoError(t, err)
	good.Key = "custom"
	good.BaseK = 18
	require.NoError(t, Register(good))

	registered, err := ProfileFor("custom")
	require.NoError(t, err)
	assert.Equal(t, 18.0, registered.BaseK)
}

func TestValidate_WeightsMustSumToOne(t *testing.T) {
	cfg, err := ProfileFor("nba")
	require.NoError(t, err)

	cfg.Weights = SpreadWeights{Elo: 0.5, Efficiency: 0.4, Form: 0.2}
	assert.Error(t, cfg.Validate())

	cfg.Weights = SpreadWeights{Elo: 0.5, Efficiency: 0.3, Form: 0.2}
	assert.NoError(t, cfg.Validate())
}

func TestProbabilityCoefficient_CalibrationPoint(t *testing.T) {
	cfg, err := ProfileFor("nba")
	require.NoError(t, err)

	// Plugging the reference spread back through the logistic must land
	// on the reference probability.
	coeff := cfg.ProbabilityCoefficient()
	p := 1 / (1 + math.Exp(-cfg.ReferenceSpread/coeff))
	assert.InDelta(t, cfg.ReferenceProbability, p, 1e-12)
}

func TestRegulationSeconds(t *testing.T) {
	nba, err := ProfileFor("nba")
	require.NoError(t, err)
	assert.Equal(t, 2880, nba.RegulationSeconds())

	ncaab, err := ProfileFor("ncaab")
	require.NoError(t, err)
	assert.Equal(t, 2400, ncaab.RegulationSeconds())
}

func TestPossessionCoefficients(t *testing.T) {
	nba, err := ProfileFor("nba")
	require.NoError(t, err)
	assert.Equal(t, 0.44, nba.PossessionCoefficient)

	// The women's college game uses the lighter FTA weight.
	ncaaw, err := ProfileFor("ncaaw")
	require.NoError(t, err)
	assert.Equal(t, 0.40, ncaaw.PossessionCoefficient)
}

func TestCanonicalStatus(t *testing.T) {
	cfg, err := ProfileFor("nba")
	require.NoError(t, err)

	assert.Equal(t, "in_progress", cfg.CanonicalStatus("3rd Quarter"))
	assert.Equal(t, "halftime", cfg.CanonicalStatus(" Halftime "))
	assert.Equal(t, "final", cfg.CanonicalStatus("Final/OT"))

	// Unmapped statuses pass through lowercased.
	assert.Equal(t, "suspended", cfg.CanonicalStatus("Suspended"))
}

func TestMarginMultiplier_EmptyTable(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, 1.0, cfg.MarginMultiplier(25))
}
