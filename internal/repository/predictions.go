package repository

import (
	"errors"
	"time"

	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PredictionRepository struct {
	db *database.DB
}

func NewPredictionRepository(db *database.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert writes the per-game singleton; regeneration replaces the row.
func (r *PredictionRepository) Upsert(prediction *models.Prediction) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}},
		UpdateAll: true,
	}).Create(prediction).Error
}

// ByGameID returns the prediction for a game, or (nil, nil).
func (r *PredictionRepository) ByGameID(gameID uint) (*models.Prediction, error) {
	var prediction models.Prediction
	err := r.db.Where("game_id = ?", gameID).First(&prediction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// SetLiveFields writes the live projection group onto an existing row.
func (r *PredictionRepository) SetLiveFields(gameID uint, spread, total, probability float64, secondsRemaining int, updatedAt time.Time) error {
	return r.db.Model(&models.Prediction{}).
		Where("game_id = ?", gameID).
		Updates(map[string]interface{}{
			"live_spread":            spread,
			"live_total":             total,
			"live_win_probability":   probability,
			"live_seconds_remaining": secondsRemaining,
			"live_updated_at":        updatedAt,
		}).Error
}

// ClearLiveFields nulls the live projection group once the game leaves an
// in-progress state, restoring the live_* <=> in-progress invariant.
func (r *PredictionRepository) ClearLiveFields(gameID uint) error {
	return r.db.Model(&models.Prediction{}).
		Where("game_id = ?", gameID).
		Updates(map[string]interface{}{
			"live_spread":            gorm.Expr("NULL"),
			"live_total":             gorm.Expr("NULL"),
			"live_win_probability":   gorm.Expr("NULL"),
			"live_seconds_remaining": gorm.Expr("NULL"),
			"live_updated_at":        gorm.Expr("NULL"),
		}).Error
}
