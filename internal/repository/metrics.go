package repository

import (
	"errors"

	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetricRepository struct {
	db *database.DB
}

func NewMetricRepository(db *database.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// Upsert recomputes-and-replaces the (team, season) row. Reruns are
// idempotent by construction; nothing accumulates.
func (r *MetricRepository) Upsert(metric *models.TeamMetric) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "season"}},
		UpdateAll: true,
	}).Create(metric).Error
}

// ByTeamSeason returns the metric row, or (nil, nil).
func (r *MetricRepository) ByTeamSeason(teamID uint, season int) (*models.TeamMetric, error) {
	var metric models.TeamMetric
	err := r.db.Where("team_id = ? AND season = ?", teamID, season).First(&metric).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &metric, nil
}

// BySeason returns every team's metric row for a sport/season.
func (r *MetricRepository) BySeason(sport string, season int) ([]models.TeamMetric, error) {
	var metrics []models.TeamMetric
	err := r.db.Where("sport = ? AND season = ?", sport, season).Order("team_id").Find(&metrics).Error
	return metrics, err
}

// Save persists changes to an existing metric row (used by the adjustment
// solver, which mutates the adj_* columns in place).
func (r *MetricRepository) Save(metric *models.TeamMetric) error {
	return r.db.Save(metric).Error
}
