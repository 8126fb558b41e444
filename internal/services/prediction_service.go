package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hoopmetrics/prediction-engine/internal/engine"
	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/internal/repository"
	"github.com/hoopmetrics/prediction-engine/internal/sports"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
)

// PredictionService builds and stores the pre-game prediction singleton
// for a matchup.
type PredictionService struct {
	db          *database.DB
	games       *repository.GameRepository
	teams       *repository.TeamRepository
	metrics     *repository.MetricRepository
	predictions *repository.PredictionRepository
	cache       *CacheService
	cacheTTL    time.Duration
	logger      *logrus.Logger
}

func NewPredictionService(db *database.DB, cache *CacheService, cacheTTL time.Duration, logger *logrus.Logger) *PredictionService {
	return &PredictionService{
		db:          db,
		games:       repository.NewGameRepository(db),
		teams:       repository.NewTeamRepository(db),
		metrics:     repository.NewMetricRepository(db),
		predictions: repository.NewPredictionRepository(db),
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Execute generates (or regenerates) the prediction for one game.
// Returns (nil, nil) for final games and unresolved teams: predictions
// are pre-game only, and ingestion gaps degrade to no output.
func (s *PredictionService) Execute(ctx context.Context, gameID uint) (*models.Prediction, error) {
	game, err := s.games.ByID(gameID)
	if err != nil {
		return nil, fmt.Errorf("loading game %d: %w", gameID, err)
	}
	if game == nil || game.Status.IsFinal() || !game.HasTeams() {
		return nil, nil
	}
	if game.HomeTeam == nil || game.AwayTeam == nil {
		return nil, nil
	}

	cfg, err := sports.ProfileFor(game.Sport)
	if err != nil {
		return nil, err
	}

	inputs := engine.PredictInputs{
		Home: engine.TeamSnapshot{
			ID:            game.HomeTeam.ID,
			Name:          game.HomeTeam.Name,
			Rating:        game.HomeTeam.CurrentElo,
			DefaultRating: game.HomeTeam.HasDefaultElo(),
		},
		Away: engine.TeamSnapshot{
			ID:            game.AwayTeam.ID,
			Name:          game.AwayTeam.Name,
			Rating:        game.AwayTeam.CurrentElo,
			DefaultRating: game.AwayTeam.HasDefaultElo(),
		},
		NeutralSite: game.NeutralSite,
	}

	homeMetric, err := s.metrics.ByTeamSeason(game.HomeTeam.ID, game.Season)
	if err != nil {
		return nil, fmt.Errorf("loading home metrics: %w", err)
	}
	awayMetric, err := s.metrics.ByTeamSeason(game.AwayTeam.ID, game.Season)
	if err != nil {
		return nil, fmt.Errorf("loading away metrics: %w", err)
	}
	inputs.HomeStrength = toStrength(homeMetric)
	inputs.AwayStrength = toStrength(awayMetric)
	inputs.HomeForm = s.formInputs(game.HomeTeam.ID, homeMetric, game.ScheduledAt)
	inputs.AwayForm = s.formInputs(game.AwayTeam.ID, awayMetric, game.ScheduledAt)
	inputs.MarketSpread = engine.MarketSpread(game.Odds, game.HomeTeam.Name, game.AwayTeam.Name, cfg)
	inputs.MarketTotal = engine.MarketTotal(game.Odds)

	result := engine.GeneratePrediction(inputs, cfg)

	prediction := &models.Prediction{
		GameID:           game.ID,
		Sport:            game.Sport,
		Season:           game.Season,
		HomeElo:          game.HomeTeam.CurrentElo,
		AwayElo:          game.AwayTeam.CurrentElo,
		Spread:           result.Spread,
		Total:            result.Total,
		WinProbability:   result.WinProbability,
		Confidence:       result.Confidence,
		HomeProjected:    result.HomeProjected,
		AwayProjected:    result.AwayProjected,
		EloSpread:        result.EloSpread,
		EfficiencySpread: result.EfficiencySpread,
		FormSpread:       result.FormSpread,
		VegasSpread:      result.VegasSpread,
		VegasTotal:       result.VegasTotal,
	}
	if err := s.predictions.Upsert(prediction); err != nil {
		return nil, fmt.Errorf("upserting prediction for game %d: %w", gameID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, PredictionCacheKey(game.ID), prediction, s.cacheTTL); err != nil {
			s.logger.WithError(err).WithField("game_id", game.ID).Warn("Failed to cache prediction")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"game_id":     game.ID,
		"spread":      result.Spread,
		"total":       result.Total,
		"probability": result.WinProbability,
	}).Debug("Generated prediction")

	return prediction, nil
}

// Cached returns the cached prediction for a game, falling back to the
// database and repopulating the cache on a miss.
func (s *PredictionService) Cached(ctx context.Context, gameID uint) (*models.Prediction, error) {
	if s.cache != nil {
		var cached models.Prediction
		if err := s.cache.Get(ctx, PredictionCacheKey(gameID), &cached); err == nil {
			return &cached, nil
		}
	}

	prediction, err := s.predictions.ByGameID(gameID)
	if err != nil || prediction == nil {
		return prediction, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, PredictionCacheKey(gameID), prediction, s.cacheTTL); err != nil {
			s.logger.WithError(err).WithField("game_id", gameID).Warn("Failed to cache prediction")
		}
	}
	return prediction, nil
}

func toStrength(metric *models.TeamMetric) *engine.TeamStrength {
	if metric == nil {
		return nil
	}
	if metric.IsAdjusted() {
		tempo := metric.Tempo
		if metric.AdjTempo != nil {
			tempo = *metric.AdjTempo
		}
		return &engine.TeamStrength{
			Offense:  *metric.AdjOffensiveEfficiency,
			Defense:  *metric.AdjDefensiveEfficiency,
			Tempo:    tempo,
			Adjusted: true,
		}
	}
	return &engine.TeamStrength{
		Offense: metric.OffensiveEfficiency,
		Defense: metric.DefensiveEfficiency,
		Tempo:   metric.Tempo,
	}
}

func (s *PredictionService) formInputs(teamID uint, metric *models.TeamMetric, tipoff time.Time) engine.FormInputs {
	form := engine.FormInputs{}
	if metric != nil {
		form.RecentNet = metric.RollingNetRating
		form.TurnoverMargin = &metric.TurnoverMargin
		form.ReboundMargin = &metric.ReboundMargin
	}

	last, err := s.games.LastFinalBefore(teamID, tipoff)
	if err != nil {
		s.logger.WithError(err).WithField("team_id", teamID).Warn("Failed to resolve rest days")
		return form
	}
	if last != nil {
		rest := int(tipoff.Sub(last.ScheduledAt).Hours() / 24)
		if rest < 0 {
			rest = 0
		}
		form.RestDays = &rest
	}
	return form
}
