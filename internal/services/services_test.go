package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One in-memory database per connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&models.Team{},
		&models.Game{},
		&models.TeamStat{},
		&models.EloRatingHistory{},
		&models.TeamMetric{},
		&models.Prediction{},
	))

	return &database.DB{DB: gdb}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seedTeam(t *testing.T, db *database.DB, externalID, name string) *models.Team {
	t.Helper()
	team := &models.Team{
		ExternalID: externalID,
		Sport:      "nba",
		Name:       name,
		CurrentElo: models.DefaultElo,
	}
	require.NoError(t, db.Create(team).Error)
	return team
}

func seedGame(t *testing.T, db *database.DB, home, away *models.Team, status models.GameStatus, homeScore, awayScore *int) *models.Game {
	t.Helper()
	game := &models.Game{
		ExternalID:  "game-" + home.ExternalID + "-" + away.ExternalID,
		Sport:       "nba",
		Season:      2025,
		SeasonType:  models.SeasonTypeRegular,
		HomeTeamID:  &home.ID,
		AwayTeamID:  &away.ID,
		Status:      status,
		ScheduledAt: time.Date(2025, 1, 15, 19, 0, 0, 0, time.UTC),
		HomeScore:   homeScore,
		AwayScore:   awayScore,
	}
	require.NoError(t, db.Create(game).Error)
	return game
}

func seedStat(t *testing.T, db *database.DB, gameID, teamID uint, points int) {
	t.Helper()
	stat := &models.TeamStat{
		GameID:              gameID,
		TeamID:              teamID,
		Points:              points,
		FieldGoalsAttempted: 90,
		FreeThrowsAttempted: 20,
		OffensiveRebounds:   10,
		DefensiveRebounds:   32,
		Turnovers:           12,
	}
	require.NoError(t, db.Create(stat).Error)
}

func intPtr(v int) *int { return &v }

func TestRatingServiceExecute_AlreadyGradedGameSkipsUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db, quietLogger())
	ctx := context.Background()

	home := seedTeam(t, db, "espn-1", "Boston")
	away := seedTeam(t, db, "espn-2", "Denver")
	game := seedGame(t, db, home, away, models.StatusFinal, intPtr(112), intPtr(104))

	first, err := svc.Execute(ctx, game.ID, true)
	require.NoError(t, err)
	require.False(t, first.Skipped)
	assert.Greater(t, first.HomeChange, 0.0)
	assert.Equal(t, -first.HomeChange, first.AwayChange)

	var homeAfter, awayAfter models.Team
	require.NoError(t, db.First(&homeAfter, home.ID).Error)
	require.NoError(t, db.First(&awayAfter, away.ID).Error)
	assert.Equal(t, first.HomeNewRating, homeAfter.CurrentElo)
	assert.Equal(t, first.AwayNewRating, awayAfter.CurrentElo)

	second, err := svc.Execute(ctx, game.ID, true)
	require.NoError(t, err)
	assert.True(t, second.Skipped)

	// Neither the ratings nor the ledger moved on the rerun.
	var homeAgain, awayAgain models.Team
	require.NoError(t, db.First(&homeAgain, home.ID).Error)
	require.NoError(t, db.First(&awayAgain, away.ID).Error)
	assert.Equal(t, homeAfter.CurrentElo, homeAgain.CurrentElo)
	assert.Equal(t, awayAfter.CurrentElo, awayAgain.CurrentElo)

	var entries int64
	require.NoError(t, db.Model(&models.EloRatingHistory{}).Count(&entries).Error)
	assert.EqualValues(t, 2, entries)
}

func TestRatingServiceExecute_NonFinalGameIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db, quietLogger())

	home := seedTeam(t, db, "espn-1", "Boston")
	away := seedTeam(t, db, "espn-2", "Denver")
	game := seedGame(t, db, home, away, models.StatusScheduled, nil, nil)

	result, err := svc.Execute(context.Background(), game.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.HomeChange)

	var entries int64
	require.NoError(t, db.Model(&models.EloRatingHistory{}).Count(&entries).Error)
	assert.EqualValues(t, 0, entries)
}

func TestMetricsServiceExecute_RecomputeKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricsService(db, quietLogger())
	ctx := context.Background()

	home := seedTeam(t, db, "espn-1", "Boston")
	away := seedTeam(t, db, "espn-2", "Denver")
	game := seedGame(t, db, home, away, models.StatusFinal, intPtr(110), intPtr(100))
	seedStat(t, db, game.ID, home.ID, 110)
	seedStat(t, db, game.ID, away.ID, 100)

	first, err := svc.Execute(ctx, home, 2025)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, first.GamesPlayed)
	assert.Greater(t, first.OffensiveEfficiency, first.DefensiveEfficiency)

	second, err := svc.Execute(ctx, home, 2025)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.OffensiveEfficiency, second.OffensiveEfficiency)
	assert.Equal(t, first.Tempo, second.Tempo)

	var rows int64
	require.NoError(t, db.Model(&models.TeamMetric{}).
		Where("team_id = ? AND season = ?", home.ID, 2025).
		Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestPredictionServiceExecute_FinalGameWritesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewPredictionService(db, nil, 0, quietLogger())
	ctx := context.Background()

	home := seedTeam(t, db, "espn-1", "Boston")
	away := seedTeam(t, db, "espn-2", "Denver")
	final := seedGame(t, db, home, away, models.StatusFinal, intPtr(112), intPtr(104))

	prediction, err := svc.Execute(ctx, final.ID)
	require.NoError(t, err)
	assert.Nil(t, prediction)

	var rows int64
	require.NoError(t, db.Model(&models.Prediction{}).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestPredictionServiceExecute_ScheduledGameUpserts(t *testing.T) {
	db := newTestDB(t)
	svc := NewPredictionService(db, nil, 0, quietLogger())
	ctx := context.Background()

	home := seedTeam(t, db, "espn-1", "Boston")
	away := seedTeam(t, db, "espn-2", "Denver")
	game := seedGame(t, db, home, away, models.StatusScheduled, nil, nil)

	first, err := svc.Execute(ctx, game.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, game.ID, first.GameID)
	assert.Greater(t, first.Total, 0.0)

	second, err := svc.Execute(ctx, game.ID)
	require.NoError(t, err)
	require.NotNil(t, second)

	var rows int64
	require.NoError(t, db.Model(&models.Prediction{}).
		Where("game_id = ?", game.ID).
		Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}
