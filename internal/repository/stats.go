package repository

import (
	"errors"

	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
	"gorm.io/gorm"
)

type StatRepository struct {
	db *database.DB
}

func NewStatRepository(db *database.DB) *StatRepository {
	return &StatRepository{db: db}
}

// ByGameAndTeam returns one side's box score for a game, or (nil, nil)
// when ingestion has not written it yet.
func (r *StatRepository) ByGameAndTeam(gameID, teamID uint) (*models.TeamStat, error) {
	var stat models.TeamStat
	err := r.db.Where("game_id = ? AND team_id = ?", gameID, teamID).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// ByGames returns all stat rows for a set of games keyed by (gameID, teamID).
func (r *StatRepository) ByGames(gameIDs []uint) (map[uint]map[uint]*models.TeamStat, error) {
	out := make(map[uint]map[uint]*models.TeamStat)
	if len(gameIDs) == 0 {
		return out, nil
	}

	var stats []models.TeamStat
	if err := r.db.Where("game_id IN ?", gameIDs).Find(&stats).Error; err != nil {
		return nil, err
	}

	for i := range stats {
		s := &stats[i]
		if out[s.GameID] == nil {
			out[s.GameID] = make(map[uint]*models.TeamStat)
		}
		out[s.GameID][s.TeamID] = s
	}
	return out, nil
}
