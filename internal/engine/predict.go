package engine

import (
	"math"

	"github.com/hoopmetrics/prediction-engine/internal/sports"
)

// TeamStrength is one side's efficiency profile for the prediction
// ensemble. The service layer fills it from adjusted metrics when the
// solver has run, raw metrics otherwise; a nil strength means the team
// has no metric record at all.
type TeamStrength struct {
	Offense  float64
	Defense  float64
	Tempo    float64
	Adjusted bool
}

// FormInputs carries the contextual signals for one side of the form
// component. Every field is optional; missing signals simply contribute
// nothing.
type FormInputs struct {
	RecentNet      *float64 // net rating over the last N games
	RestDays       *int
	TurnoverMargin *float64 // forced minus committed, per game
	ReboundMargin  *float64
}

// PredictInputs is the full pre-game picture for one matchup.
type PredictInputs struct {
	Home        TeamSnapshot
	Away        TeamSnapshot
	NeutralSite bool

	HomeStrength *TeamStrength
	AwayStrength *TeamStrength

	HomeForm FormInputs
	AwayForm FormInputs

	// MarketSpread is the odds-implied home margin and MarketTotal the
	// posted totals line, when an odds payload was attached to the game;
	// see MarketSpread and MarketTotal in odds.go.
	MarketSpread *float64
	MarketTotal  *float64
}

// PredictionResult is the blended pre-game output. Spread and Total carry
// one decimal, WinProbability three, Confidence two.
type PredictionResult struct {
	Spread         float64
	Total          float64
	WinProbability float64
	Confidence     float64

	HomeProjected float64
	AwayProjected float64

	EloSpread        *float64
	EfficiencySpread *float64
	FormSpread       *float64
	VegasSpread      *float64
	VegasTotal       *float64
}

// WinProbability maps a home-margin spread through the calibrated
// logistic: p = 1 / (1 + e^(-spread/coeff)), with the coefficient fixed
// by the sport's reference spread/probability pair. Symmetric by
// construction: p(s) + p(-s) = 1.
func WinProbability(spread float64, cfg sports.Config) float64 {
	return 1 / (1 + math.Exp(-spread/cfg.ProbabilityCoefficient()))
}

// GeneratePrediction combines the Elo, efficiency and form components
// into a blended spread, total and win probability. The caller guarantees
// the game is not final and both teams resolved; everything else degrades
// gracefully (missing metrics drop the efficiency component and the
// remaining weights rescale proportionally).
func GeneratePrediction(in PredictInputs, cfg sports.Config) PredictionResult {
	result := PredictionResult{}

	eloSpread := eloComponent(in, cfg)
	result.EloSpread = float64Ptr(roundTo(eloSpread, 1))

	effSpread, homeProj, awayProj, effAvailable := efficiencyComponent(in, cfg)
	if effAvailable {
		result.EfficiencySpread = float64Ptr(roundTo(effSpread, 1))
	}

	formSpread := formComponent(in, cfg)
	result.FormSpread = float64Ptr(roundTo(formSpread, 1))

	// Weighted blend over the available components, reweighted
	// proportionally when one is missing.
	weightSum := cfg.Weights.Elo + cfg.Weights.Form
	blended := cfg.Weights.Elo*eloSpread + cfg.Weights.Form*formSpread
	if effAvailable {
		weightSum += cfg.Weights.Efficiency
		blended += cfg.Weights.Efficiency * effSpread
	}
	// All configured weight can sit on the efficiency component; when it
	// is unavailable the Elo spread stands in rather than dividing by zero.
	spread := eloSpread
	if weightSum > 0 {
		spread = blended / weightSum
	}

	if in.MarketSpread != nil && cfg.MarketWeight > 0 {
		result.VegasSpread = float64Ptr(roundTo(*in.MarketSpread, 1))
		spread = (1-cfg.MarketWeight)*spread + cfg.MarketWeight**in.MarketSpread
	}

	total := homeProj + awayProj
	if in.MarketTotal != nil && cfg.MarketWeight > 0 {
		result.VegasTotal = float64Ptr(roundTo(*in.MarketTotal, 1))
		total = (1-cfg.MarketWeight)*total + cfg.MarketWeight**in.MarketTotal
	}

	result.Spread = roundTo(spread, 1)
	result.Total = roundTo(total, 1)
	result.HomeProjected = roundTo(homeProj, 1)
	result.AwayProjected = roundTo(awayProj, 1)
	result.WinProbability = roundTo(WinProbability(result.Spread, cfg), 3)
	result.Confidence = confidence(in, cfg)

	return result
}

func eloComponent(in PredictInputs, cfg sports.Config) float64 {
	homeAdvantage := cfg.HomeAdvantage
	if in.NeutralSite {
		homeAdvantage = 0
	}
	return (float64(in.Home.Rating) + homeAdvantage - float64(in.Away.Rating)) / cfg.EloSpreadDivisor
}

// efficiencyComponent projects each side's score from pace x efficiency
// and takes the difference. Available when at least one side has a metric
// record; league defaults fill the other side (and both sides for the
// total projection when the component is unavailable).
func efficiencyComponent(in PredictInputs, cfg sports.Config) (spread, homeProj, awayProj float64, available bool) {
	available = in.HomeStrength != nil || in.AwayStrength != nil

	home := strengthOrDefault(in.HomeStrength, cfg)
	away := strengthOrDefault(in.AwayStrength, cfg)

	homeCourt := cfg.HomeCourtPoints
	if in.NeutralSite {
		homeCourt = 0
	}

	pace := (home.Tempo + away.Tempo) / 2
	homeProj = pace*(home.Offense+away.Defense)/2/100 + homeCourt/2
	awayProj = pace*(away.Offense+home.Defense)/2/100 - homeCourt/2
	spread = homeProj - awayProj
	return spread, homeProj, awayProj, available
}

func strengthOrDefault(s *TeamStrength, cfg sports.Config) TeamStrength {
	if s != nil {
		return *s
	}
	return TeamStrength{
		Offense: cfg.LeagueAvgEfficiency,
		Defense: cfg.LeagueAvgEfficiency,
		Tempo:   cfg.LeagueAvgTempo,
	}
}

// formComponent starts from the home-court-points constant and layers on
// the recent-form differential, rest advantage and turnover/rebound
// tendencies where the signals exist.
func formComponent(in PredictInputs, cfg sports.Config) float64 {
	form := cfg.HomeCourtPoints
	if in.NeutralSite {
		form = 0
	}

	if in.HomeForm.RecentNet != nil && in.AwayForm.RecentNet != nil {
		form += cfg.FormNetWeight * (*in.HomeForm.RecentNet - *in.AwayForm.RecentNet)
	}

	if in.HomeForm.RestDays != nil && in.AwayForm.RestDays != nil {
		restDiff := float64(*in.HomeForm.RestDays - *in.AwayForm.RestDays)
		restDiff = clamp(restDiff, -float64(cfg.MaxRestAdvantage), float64(cfg.MaxRestAdvantage))
		form += cfg.RestDayPoints * restDiff
	}

	if in.HomeForm.TurnoverMargin != nil && in.AwayForm.TurnoverMargin != nil {
		form += cfg.TurnoverPoints * (*in.HomeForm.TurnoverMargin - *in.AwayForm.TurnoverMargin)
	}

	if in.HomeForm.ReboundMargin != nil && in.AwayForm.ReboundMargin != nil {
		form += cfg.ReboundPoints * (*in.HomeForm.ReboundMargin - *in.AwayForm.ReboundMargin)
	}

	return form
}

// confidence scores how much supporting data stood behind the prediction:
// a base that is always present, a bonus per side with season metrics, a
// bonus when both sides were opponent-adjusted, and a bonus per side whose
// rating has moved off the default. Capped at 100.
func confidence(in PredictInputs, cfg sports.Config) float64 {
	score := cfg.ConfidenceBase

	if in.HomeStrength != nil {
		score += cfg.ConfidenceMetricsBonus
	}
	if in.AwayStrength != nil {
		score += cfg.ConfidenceMetricsBonus
	}
	if in.HomeStrength != nil && in.AwayStrength != nil &&
		in.HomeStrength.Adjusted && in.AwayStrength.Adjusted {
		score += cfg.ConfidenceAdjustedBonus
	}
	if !in.Home.DefaultRating {
		score += cfg.ConfidenceEloBonus
	}
	if !in.Away.DefaultRating {
		score += cfg.ConfidenceEloBonus
	}

	return roundTo(math.Min(score, 100), 2)
}
