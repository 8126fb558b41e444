package engine

import (
	"fmt"
	"math"

	"github.com/hoopmetrics/prediction-engine/internal/sports"
)

// LiveBaseline is the stored pre-game prediction the projector blends
// against.
type LiveBaseline struct {
	Spread         float64
	Total          float64
	WinProbability float64
}

// LiveState is the current clock/score picture of an in-progress game.
type LiveState struct {
	Period    int
	Clock     string // "MM:SS" remaining in the current period
	HomeScore int
	AwayScore int
}

// LiveResult is the recomputed in-game projection.
type LiveResult struct {
	Spread           float64
	Total            float64
	WinProbability   float64
	SecondsRemaining int
}

// ParseClock parses an "MM:SS" clock into seconds remaining in the
// current period. Malformed clocks read as 0:00; a missing or garbled
// clock late in a period is indistinguishable from one that ran out, and
// either way the projection should lean on the score.
func ParseClock(clock string) int {
	var min, sec int
	if _, err := fmt.Sscanf(clock, "%d:%d", &min, &sec); err != nil {
		return 0
	}
	if min < 0 || sec < 0 || sec > 59 {
		return 0
	}
	return min*60 + sec
}

// GameSeconds derives (secondsElapsed, secondsRemaining, effectiveLength)
// from period + clock. Each overtime period extends the effective length
// by the sport's per-OT increment; future overtimes are unknowable and
// contribute nothing to the remaining time.
func GameSeconds(period int, clock string, cfg sports.Config) (elapsed, remaining, total int) {
	if period < 1 {
		period = 1
	}
	clockSeconds := ParseClock(clock)
	if clockSeconds > periodLength(period, cfg) {
		clockSeconds = periodLength(period, cfg)
	}

	total = cfg.RegulationSeconds()
	if period > cfg.RegulationPeriods {
		total += (period - cfg.RegulationPeriods) * cfg.OvertimeSeconds
	}

	if period <= cfg.RegulationPeriods {
		remaining = clockSeconds + (cfg.RegulationPeriods-period)*cfg.PeriodSeconds
	} else {
		remaining = clockSeconds
	}

	elapsed = total - remaining
	return elapsed, remaining, total
}

func periodLength(period int, cfg sports.Config) int {
	if period > cfg.RegulationPeriods {
		return cfg.OvertimeSeconds
	}
	return cfg.PeriodSeconds
}

// ProjectLive recomputes spread, total and win probability for a game in
// progress, blending the pre-game baseline against the current state with
// time-decay weights. Pure function; status gating and persistence live
// in the service layer.
func ProjectLive(base LiveBaseline, state LiveState, cfg sports.Config) LiveResult {
	elapsed, remaining, total := GameSeconds(state.Period, state.Clock, cfg)
	margin := state.HomeScore - state.AwayScore
	fraction := clamp(float64(elapsed)/float64(total), 0, 1)

	return LiveResult{
		Spread:           roundTo(liveSpread(base.Spread, margin, fraction, cfg), 1),
		Total:            roundTo(liveTotal(base.Total, state, elapsed, remaining, total, cfg), 1),
		WinProbability:   roundTo(liveWinProbability(base.WinProbability, margin, fraction, remaining, cfg), 3),
		SecondsRemaining: remaining,
	}
}

// liveWinProbability blends the pre-game probability (as log-odds) with a
// margin term. The margin weight grows as sqrt(elapsed fraction) while
// the pre-game term fades out, and each point of margin is worth more
// late (quadratic growth). A finished clock is decided by the scoreboard
// alone.
func liveWinProbability(preProb float64, margin int, fraction float64, remaining int, cfg sports.Config) float64 {
	if remaining <= 0 {
		switch {
		case margin > 0:
			return 0.999
		case margin < 0:
			return 0.001
		default:
			return 0.5
		}
	}

	pre := clamp(preProb, 0.001, 0.999)
	preLogOdds := math.Log(pre / (1 - pre))

	marginWeight := math.Sqrt(fraction)
	pointValue := cfg.LivePointValue * (1 + cfg.LiveLateGain*fraction*fraction)
	marginLogOdds := float64(margin) * pointValue

	logOdds := (1-marginWeight)*preLogOdds + marginWeight*marginLogOdds
	prob := 1 / (1 + math.Exp(-logOdds))

	prob = compressBlowout(prob, margin, fraction, cfg)

	return clamp(prob, 0.001, 0.999)
}

// compressBlowout pushes the probability toward certainty once a game is
// both late and lopsided. Comeback frequency collapses superlinearly with
// margin x time, which the plain log-odds blend underrates.
func compressBlowout(prob float64, margin int, fraction float64, cfg sports.Config) float64 {
	absMargin := margin
	if absMargin < 0 {
		absMargin = -absMargin
	}
	if cfg.BlowoutMargin <= 0 || absMargin < cfg.BlowoutMargin || fraction < 0.5 {
		return prob
	}

	marginFactor := clamp(float64(absMargin)/float64(cfg.BlowoutMargin)-1+0.25, 0, 1)
	timeFactor := clamp((fraction-0.5)/0.5, 0, 1)
	push := cfg.CompressionStrength * marginFactor * timeFactor

	if margin > 0 {
		return prob + (0.999-prob)*push
	}
	return prob - (prob-0.001)*push
}

// liveSpread shifts from pre-game-dominant early to margin-dominant late
// on a power curve, converging exactly to the raw margin at 0:00.
func liveSpread(preSpread float64, margin int, fraction float64, cfg sports.Config) float64 {
	liveWeight := math.Pow(fraction, cfg.LiveSpreadPower)
	return (1-liveWeight)*preSpread + liveWeight*float64(margin)
}

// liveTotal blends current scoring pace extrapolated to the full game
// against the pre-game total's implied remaining scoring, leaning on pace
// as the game progresses. Clamped to the sport's plausible range and
// never below what has already been scored.
func liveTotal(preTotal float64, state LiveState, elapsed, remaining, total int, cfg sports.Config) float64 {
	scored := float64(state.HomeScore + state.AwayScore)
	if elapsed <= 0 {
		return clamp(preTotal, cfg.MinLiveTotal, cfg.MaxLiveTotal)
	}

	paceProjection := scored * float64(total) / float64(elapsed)
	impliedProjection := scored + preTotal*float64(remaining)/float64(total)

	fraction := float64(elapsed) / float64(total)
	blended := fraction*paceProjection + (1-fraction)*impliedProjection

	blended = clamp(blended, cfg.MinLiveTotal, cfg.MaxLiveTotal)
	if blended < scored {
		blended = scored
	}
	return blended
}
