package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hoopmetrics/prediction-engine/internal/engine"
	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/internal/repository"
	"github.com/hoopmetrics/prediction-engine/internal/sports"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
)

// RatingService grades completed games into Elo updates. It owns the only
// writes to Team.CurrentElo and the elo_rating_history ledger.
type RatingService struct {
	db      *database.DB
	games   *repository.GameRepository
	teams   *repository.TeamRepository
	ratings *repository.RatingRepository
	logger  *logrus.Logger
}

func NewRatingService(db *database.DB, logger *logrus.Logger) *RatingService {
	return &RatingService{
		db:      db,
		games:   repository.NewGameRepository(db),
		teams:   repository.NewTeamRepository(db),
		ratings: repository.NewRatingRepository(db),
		logger:  logger,
	}
}

// Execute grades one game. Non-final games, unresolved teams and missing
// scores all return a zero result without error: ingestion gaps must not
// crash the pipeline. With skipIfExists an already-graded game returns
// Skipped=true and touches nothing; ratings are never double-applied.
func (s *RatingService) Execute(ctx context.Context, gameID uint, skipIfExists bool) (engine.EloResult, error) {
	var zero engine.EloResult

	game, err := s.games.ByID(gameID)
	if err != nil {
		return zero, fmt.Errorf("loading game %d: %w", gameID, err)
	}
	if game == nil || !game.Status.IsFinal() || !game.HasTeams() {
		return zero, nil
	}
	if game.HomeScore == nil || game.AwayScore == nil {
		s.logger.WithField("game_id", gameID).Warn("Final game has no scores, skipping Elo")
		return zero, nil
	}
	if game.HomeTeam == nil || game.AwayTeam == nil {
		return zero, nil
	}

	cfg, err := sports.ProfileFor(game.Sport)
	if err != nil {
		return zero, err
	}

	if skipIfExists {
		exists, err := s.ratings.ExistsForGame(game.ID, *game.HomeTeamID, *game.AwayTeamID)
		if err != nil {
			return zero, fmt.Errorf("checking rating history for game %d: %w", gameID, err)
		}
		if exists {
			return engine.EloResult{Skipped: true}, nil
		}
	}

	result := engine.CalculateElo(
		engine.GameSnapshot{
			ID:          game.ID,
			Season:      game.Season,
			Date:        game.ScheduledAt,
			Postseason:  game.IsPostseason(),
			NeutralSite: game.NeutralSite,
			HomeScore:   *game.HomeScore,
			AwayScore:   *game.AwayScore,
		},
		engine.TeamSnapshot{ID: game.HomeTeam.ID, Rating: game.HomeTeam.CurrentElo},
		engine.TeamSnapshot{ID: game.AwayTeam.ID, Rating: game.AwayTeam.CurrentElo},
		cfg,
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.teams.UpdateRating(tx, game.HomeTeam.ID, result.HomeNewRating); err != nil {
			return err
		}
		if err := s.teams.UpdateRating(tx, game.AwayTeam.ID, result.AwayNewRating); err != nil {
			return err
		}
		for _, entry := range []models.EloRatingHistory{
			{
				TeamID:   game.HomeTeam.ID,
				GameID:   game.ID,
				Sport:    game.Sport,
				Season:   game.Season,
				GameDate: game.ScheduledAt,
				Rating:   result.HomeNewRating,
				Change:   result.HomeChange,
			},
			{
				TeamID:   game.AwayTeam.ID,
				GameID:   game.ID,
				Sport:    game.Sport,
				Season:   game.Season,
				GameDate: game.ScheduledAt,
				Rating:   result.AwayNewRating,
				Change:   result.AwayChange,
			},
		} {
			e := entry
			if err := s.ratings.Insert(tx, &e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return zero, fmt.Errorf("persisting Elo for game %d: %w", gameID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"game_id":     game.ID,
		"home_change": result.HomeChange,
		"away_change": result.AwayChange,
	}).Debug("Graded game")

	return result, nil
}

// RegressToMean pulls every team in a league partway back toward the
// baseline rating. Run once at a season boundary, never per game.
func (s *RatingService) RegressToMean(ctx context.Context, sport string) (int, error) {
	cfg, err := sports.ProfileFor(sport)
	if err != nil {
		return 0, err
	}

	teams, err := s.teams.BySport(sport)
	if err != nil {
		return 0, fmt.Errorf("loading teams for %s: %w", sport, err)
	}

	updated := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, team := range teams {
			regressed := engine.RegressRating(team.CurrentElo, cfg)
			if regressed == team.CurrentElo {
				continue
			}
			if err := s.teams.UpdateRating(tx, team.ID, regressed); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("regressing %s ratings: %w", sport, err)
	}

	s.logger.WithFields(logrus.Fields{"sport": sport, "teams": updated}).Info("Regressed ratings toward baseline")
	return updated, nil
}
