package repository

import (
	"errors"
	"time"

	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
	"gorm.io/gorm"
)

type RatingRepository struct {
	db *database.DB
}

func NewRatingRepository(db *database.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// ExistsForGame reports whether any history row exists for the game and
// either team, the idempotency guard against double-grading.
func (r *RatingRepository) ExistsForGame(gameID uint, teamIDs ...uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.EloRatingHistory{}).
		Where("game_id = ? AND team_id IN ?", gameID, teamIDs).
		Count(&count).Error
	return count > 0, err
}

// Insert appends a ledger row inside the caller's transaction.
func (r *RatingRepository) Insert(tx *gorm.DB, entry *models.EloRatingHistory) error {
	return tx.Create(entry).Error
}

// RatingAsOf reconstructs a team's rating as of a date: the most recent
// ledger row at or before it. (nil, nil) when the team had no graded
// games yet.
func (r *RatingRepository) RatingAsOf(teamID uint, date time.Time) (*int, error) {
	var entry models.EloRatingHistory
	err := r.db.
		Where("team_id = ? AND game_date <= ?", teamID, date).
		Order("game_date DESC, id DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rating := entry.Rating
	return &rating, nil
}

// HistoryForTeam returns a team's full ledger for a season, oldest first.
func (r *RatingRepository) HistoryForTeam(teamID uint, season int) ([]models.EloRatingHistory, error) {
	var entries []models.EloRatingHistory
	err := r.db.
		Where("team_id = ? AND season = ?", teamID, season).
		Order("game_date ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
