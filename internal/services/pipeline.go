package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/hoopmetrics/prediction-engine/internal/repository"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
	"github.com/hoopmetrics/prediction-engine/pkg/logger"
)

// Pipeline runs the full recompute pass the engine depends on, in data
// dependency order: grade new finals, rebuild season metrics, run the
// opponent adjustment, regenerate upcoming predictions. Live refresh runs
// on its own tighter schedule.
type Pipeline struct {
	games       *repository.GameRepository
	teams       *repository.TeamRepository
	ratings     *RatingService
	metrics     *MetricsService
	predictions *PredictionService
	live        *LiveService
	sports      []string
	log         *logrus.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

const (
	gradeBatchSize      = 500
	predictionBatchSize = 200
)

func NewPipeline(
	db *database.DB,
	ratings *RatingService,
	metrics *MetricsService,
	predictions *PredictionService,
	live *LiveService,
	supportedSports []string,
	log *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		games:       repository.NewGameRepository(db),
		teams:       repository.NewTeamRepository(db),
		ratings:     ratings,
		metrics:     metrics,
		predictions: predictions,
		live:        live,
		sports:      supportedSports,
		log:         log,
		cron:        cron.New(),
	}
}

// Start schedules the recompute and live refresh jobs.
func (p *Pipeline) Start(recomputeEvery, liveEvery time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("pipeline is already running")
	}

	if _, err := p.cron.AddFunc(fmt.Sprintf("@every %s", recomputeEvery), func() {
		if err := p.Run(context.Background()); err != nil {
			p.log.WithError(err).Error("Recompute pass failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule recompute: %w", err)
	}

	if _, err := p.cron.AddFunc(fmt.Sprintf("@every %s", liveEvery), func() {
		if err := p.RefreshLive(context.Background()); err != nil {
			p.log.WithError(err).Error("Live refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule live refresh: %w", err)
	}

	p.cron.Start()
	p.isRunning = true

	// Run an initial pass so a fresh deployment has predictions before
	// the first tick.
	go func() {
		if err := p.Run(context.Background()); err != nil {
			p.log.WithError(err).Error("Initial recompute pass failed")
		}
	}()

	p.log.Info("Engine pipeline started")
	return nil
}

// Stop halts the scheduled jobs.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}
	p.cron.Stop()
	p.isRunning = false
	p.log.Info("Engine pipeline stopped")
}

// Run executes one full recompute pass across all supported sports.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()
	log := logger.WithRunID(runID)
	start := time.Now()

	for _, sport := range p.sports {
		if err := p.runSport(ctx, sport, log); err != nil {
			return fmt.Errorf("recompute pass for %s: %w", sport, err)
		}
	}

	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Recompute pass completed")
	return nil
}

func (p *Pipeline) runSport(ctx context.Context, sport string, log *logrus.Entry) error {
	log = log.WithField("sport", sport)

	// 1. Grade newly-final games in chronological order.
	ungraded, err := p.games.UngradedFinal(sport, gradeBatchSize)
	if err != nil {
		return fmt.Errorf("loading ungraded games: %w", err)
	}
	graded := 0
	for _, game := range ungraded {
		result, err := p.ratings.Execute(ctx, game.ID, true)
		if err != nil {
			return err
		}
		if !result.Skipped {
			graded++
		}
	}
	if graded > 0 {
		log.WithField("games", graded).Info("Graded new final games")
	}

	// 2. Rebuild season metrics for the current season, then adjust.
	seasons, err := p.games.SeasonsWithFinals(sport)
	if err != nil {
		return fmt.Errorf("loading seasons: %w", err)
	}
	if len(seasons) > 0 {
		season := seasons[0]
		teams, err := p.teams.BySport(sport)
		if err != nil {
			return fmt.Errorf("loading teams: %w", err)
		}
		for i := range teams {
			if _, err := p.metrics.Execute(ctx, &teams[i], season); err != nil {
				return err
			}
		}
		if err := p.metrics.RunAdjustment(ctx, sport, season); err != nil {
			return err
		}
	}

	// 3. Regenerate predictions for upcoming games.
	upcoming, err := p.games.Upcoming(sport, predictionBatchSize)
	if err != nil {
		return fmt.Errorf("loading upcoming games: %w", err)
	}
	predicted := 0
	for _, game := range upcoming {
		prediction, err := p.predictions.Execute(ctx, game.ID)
		if err != nil {
			return err
		}
		if prediction != nil {
			predicted++
		}
	}
	if predicted > 0 {
		log.WithField("games", predicted).Info("Regenerated predictions")
	}

	return nil
}

// RollSeason applies the between-season rating regression for every
// supported sport. Invoked explicitly at a season boundary, never on a
// schedule.
func (p *Pipeline) RollSeason(ctx context.Context) error {
	for _, sport := range p.sports {
		regressed, err := p.ratings.RegressToMean(ctx, sport)
		if err != nil {
			return fmt.Errorf("season regression for %s: %w", sport, err)
		}
		p.log.WithFields(logrus.Fields{
			"sport": sport,
			"teams": regressed,
		}).Info("Regressed ratings toward baseline")
	}
	return nil
}

// RefreshLive updates live projections for in-progress games and clears
// stale projections on games that just ended.
func (p *Pipeline) RefreshLive(ctx context.Context) error {
	for _, sport := range p.sports {
		inProgress, err := p.games.InProgress(sport)
		if err != nil {
			return fmt.Errorf("loading in-progress games for %s: %w", sport, err)
		}
		for _, game := range inProgress {
			if _, err := p.live.Execute(ctx, game.ID); err != nil {
				return err
			}
		}

		ended, err := p.games.RecentlyEnded(sport)
		if err != nil {
			return fmt.Errorf("loading recently-ended games for %s: %w", sport, err)
		}
		for _, game := range ended {
			if _, err := p.live.Execute(ctx, game.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
