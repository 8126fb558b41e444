// Package repository is the thin gorm boundary between the engine and
// durable state. Repositories translate "not found" into (nil, nil) so
// data gaps stay non-fatal, matching the engine's degradation rules.
package repository

import (
	"errors"

	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
	"gorm.io/gorm"
)

type TeamRepository struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// ByID returns the team, or (nil, nil) when it does not exist.
func (r *TeamRepository) ByID(id uint) (*models.Team, error) {
	var team models.Team
	err := r.db.First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// ByExternalID returns the team for a provider identifier.
func (r *TeamRepository) ByExternalID(sport, externalID string) (*models.Team, error) {
	var team models.Team
	err := r.db.Where("sport = ? AND external_id = ?", sport, externalID).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// BySport returns all teams in a league.
func (r *TeamRepository) BySport(sport string) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.Where("sport = ?", sport).Order("id").Find(&teams).Error
	return teams, err
}

// UpdateRating writes a team's new current Elo.
func (r *TeamRepository) UpdateRating(tx *gorm.DB, teamID uint, rating int) error {
	return tx.Model(&models.Team{}).Where("id = ?", teamID).Update("current_elo", rating).Error
}
