package repository

import (
	"errors"
	"time"

	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
	"gorm.io/gorm"
)

type GameRepository struct {
	db *database.DB
}

func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

// ByID returns the game with team associations, or (nil, nil).
func (r *GameRepository) ByID(id uint) (*models.Game, error) {
	var game models.Game
	err := r.db.Preload("HomeTeam").Preload("AwayTeam").First(&game, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// ByExternalID returns the game for a provider event identifier.
func (r *GameRepository) ByExternalID(sport, externalID string) (*models.Game, error) {
	var game models.Game
	err := r.db.Where("sport = ? AND external_id = ?", sport, externalID).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// FinalByTeamSeason returns a team's completed games in a season, oldest
// first. Chronological order matters to every consumer.
func (r *GameRepository) FinalByTeamSeason(teamID uint, season int) ([]models.Game, error) {
	var games []models.Game
	err := r.db.
		Where("season = ? AND status = ? AND (home_team_id = ? OR away_team_id = ?)",
			season, models.StatusFinal, teamID, teamID).
		Order("scheduled_at ASC").
		Find(&games).Error
	return games, err
}

// FinalBySeason returns every completed game for a sport/season, oldest
// first.
func (r *GameRepository) FinalBySeason(sport string, season int) ([]models.Game, error) {
	var games []models.Game
	err := r.db.
		Where("sport = ? AND season = ? AND status = ?", sport, season, models.StatusFinal).
		Order("scheduled_at ASC").
		Find(&games).Error
	return games, err
}

// UngradedFinal returns completed games that have no rating-history rows
// yet, oldest first, so Elo applies in chronological order.
func (r *GameRepository) UngradedFinal(sport string, limit int) ([]models.Game, error) {
	var games []models.Game
	q := r.db.
		Where("sport = ? AND status = ?", sport, models.StatusFinal).
		Where("NOT EXISTS (SELECT 1 FROM elo_rating_history h WHERE h.game_id = games.id)").
		Order("scheduled_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&games).Error
	return games, err
}

// Upcoming returns scheduled games for a sport, soonest first.
func (r *GameRepository) Upcoming(sport string, limit int) ([]models.Game, error) {
	var games []models.Game
	q := r.db.
		Where("sport = ? AND status = ?", sport, models.StatusScheduled).
		Order("scheduled_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&games).Error
	return games, err
}

// LastFinalBefore returns a team's most recent completed game before a
// date, or (nil, nil). Used to derive rest days.
func (r *GameRepository) LastFinalBefore(teamID uint, before time.Time) (*models.Game, error) {
	var game models.Game
	err := r.db.
		Where("status = ? AND scheduled_at < ? AND (home_team_id = ? OR away_team_id = ?)",
			models.StatusFinal, before, teamID, teamID).
		Order("scheduled_at DESC").
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

// InProgress returns games currently in a live status.
func (r *GameRepository) InProgress(sport string) ([]models.Game, error) {
	var games []models.Game
	err := r.db.
		Where("sport = ? AND status IN ?", sport,
			[]models.GameStatus{models.StatusInProgress, models.StatusHalftime, models.StatusEndPeriod}).
		Find(&games).Error
	return games, err
}

// RecentlyEnded returns games that left a live status but still carry a
// live projection group needing to be cleared.
func (r *GameRepository) RecentlyEnded(sport string) ([]models.Game, error) {
	var games []models.Game
	err := r.db.
		Joins("JOIN predictions p ON p.game_id = games.id").
		Where("games.sport = ? AND games.status NOT IN ? AND p.live_win_probability IS NOT NULL",
			sport, []models.GameStatus{models.StatusInProgress, models.StatusHalftime, models.StatusEndPeriod}).
		Find(&games).Error
	return games, err
}

// SeasonsWithFinals returns the distinct seasons holding completed games
// for a sport, newest first.
func (r *GameRepository) SeasonsWithFinals(sport string) ([]int, error) {
	var seasons []int
	err := r.db.Model(&models.Game{}).
		Where("sport = ? AND status = ?", sport, models.StatusFinal).
		Distinct("season").
		Order("season DESC").
		Pluck("season", &seasons).Error
	return seasons, err
}
