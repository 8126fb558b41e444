package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hoopmetrics/prediction-engine/internal/engine"
	"github.com/hoopmetrics/prediction-engine/internal/repository"
	"github.com/hoopmetrics/prediction-engine/internal/sports"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
)

// LiveService maintains the live projection group on predictions while
// games are underway, and clears it when they are not.
type LiveService struct {
	db          *database.DB
	games       *repository.GameRepository
	predictions *repository.PredictionRepository
	cache       *CacheService
	cacheTTL    time.Duration
	logger      *logrus.Logger
}

func NewLiveService(db *database.DB, cache *CacheService, cacheTTL time.Duration, logger *logrus.Logger) *LiveService {
	return &LiveService{
		db:          db,
		games:       repository.NewGameRepository(db),
		predictions: repository.NewPredictionRepository(db),
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Execute recomputes the live projection for one game. Out-of-live-status
// games clear any stale projection and return (nil, nil); games with no
// pre-game prediction return (nil, nil).
func (s *LiveService) Execute(ctx context.Context, gameID uint) (*engine.LiveResult, error) {
	game, err := s.games.ByID(gameID)
	if err != nil {
		return nil, fmt.Errorf("loading game %d: %w", gameID, err)
	}
	if game == nil {
		return nil, nil
	}

	prediction, err := s.predictions.ByGameID(gameID)
	if err != nil {
		return nil, fmt.Errorf("loading prediction for game %d: %w", gameID, err)
	}

	if !game.Status.IsInProgress() {
		if prediction != nil && prediction.HasLive() {
			if err := s.predictions.ClearLiveFields(gameID); err != nil {
				return nil, fmt.Errorf("clearing live fields for game %d: %w", gameID, err)
			}
			if s.cache != nil {
				if err := s.cache.Delete(ctx, LiveProjectionCacheKey(gameID)); err != nil {
					s.logger.WithError(err).WithField("game_id", gameID).Warn("Failed to evict live cache")
				}
			}
			s.logger.WithField("game_id", gameID).Debug("Cleared live projection")
		}
		return nil, nil
	}

	if prediction == nil {
		return nil, nil
	}

	cfg, err := sports.ProfileFor(game.Sport)
	if err != nil {
		return nil, err
	}

	state := engine.LiveState{Period: 1}
	if game.Period != nil {
		state.Period = *game.Period
	}
	if game.Clock != nil {
		state.Clock = *game.Clock
	}
	if game.HomeScore != nil {
		state.HomeScore = *game.HomeScore
	}
	if game.AwayScore != nil {
		state.AwayScore = *game.AwayScore
	}

	result := engine.ProjectLive(engine.LiveBaseline{
		Spread:         prediction.Spread,
		Total:          prediction.Total,
		WinProbability: prediction.WinProbability,
	}, state, cfg)

	now := time.Now().UTC()
	if err := s.predictions.SetLiveFields(gameID, result.Spread, result.Total, result.WinProbability, result.SecondsRemaining, now); err != nil {
		return nil, fmt.Errorf("persisting live projection for game %d: %w", gameID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, LiveProjectionCacheKey(gameID), result, s.cacheTTL); err != nil {
			s.logger.WithError(err).WithField("game_id", gameID).Warn("Failed to cache live projection")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"game_id":           gameID,
		"live_spread":       result.Spread,
		"live_probability":  result.WinProbability,
		"seconds_remaining": result.SecondsRemaining,
	}).Debug("Updated live projection")

	return &result, nil
}
