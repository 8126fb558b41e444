package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/pkg/config"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// Auto migrate all models
	if err := db.AutoMigrate(
		&models.Team{},
		&models.Game{},
		&models.TeamStat{},
		&models.EloRatingHistory{},
		&models.TeamMetric{},
		&models.Prediction{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_games_status_scheduled ON games(status, scheduled_at)",
		"CREATE INDEX IF NOT EXISTS idx_games_home_team_season ON games(home_team_id, season)",
		"CREATE INDEX IF NOT EXISTS idx_games_away_team_season ON games(away_team_id, season)",
		"CREATE INDEX IF NOT EXISTS idx_predictions_live_updated ON predictions(live_updated_at) WHERE live_updated_at IS NOT NULL",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"predictions",
		"team_metrics",
		"elo_rating_history",
		"team_stats",
		"games",
		"teams",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	teams := []models.Team{
		{ExternalID: "espn_2", Sport: "nba", Name: "Boston Celtics", Abbreviation: "BOS"},
		{ExternalID: "espn_13", Sport: "nba", Name: "Los Angeles Lakers", Abbreviation: "LAL"},
		{ExternalID: "espn_7", Sport: "nba", Name: "Denver Nuggets", Abbreviation: "DEN"},
		{ExternalID: "espn_21", Sport: "nba", Name: "Oklahoma City Thunder", Abbreviation: "OKC"},
	}
	for i := range teams {
		teams[i].CurrentElo = models.DefaultElo
	}

	if err := db.Create(&teams).Error; err != nil {
		return fmt.Errorf("failed to create teams: %w", err)
	}

	season := time.Now().Year()
	tipoff := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	spreadPoint := -4.5
	totalPoint := 221.5
	games := []models.Game{
		{
			ExternalID:  "espn_401700001",
			Sport:       "nba",
			Season:      season,
			SeasonType:  models.SeasonTypeRegular,
			HomeTeamID:  &teams[0].ID,
			AwayTeamID:  &teams[1].ID,
			Status:      models.StatusScheduled,
			ScheduledAt: tipoff,
			Odds: &models.OddsPayload{
				Bookmakers: []models.Bookmaker{
					{
						Key:   "draftkings",
						Title: "DraftKings",
						Markets: []models.OddsMarket{
							{
								Key: models.MarketMoneyline,
								Outcomes: []models.OddsOutcome{
									{Name: teams[0].Name, Price: -190},
									{Name: teams[1].Name, Price: 160},
								},
							},
							{
								Key: models.MarketSpreads,
								Outcomes: []models.OddsOutcome{
									{Name: teams[0].Name, Price: -110, Point: &spreadPoint},
								},
							},
							{
								Key: models.MarketTotals,
								Outcomes: []models.OddsOutcome{
									{Name: "Over", Price: -110, Point: &totalPoint},
								},
							},
						},
					},
				},
			},
		},
		{
			ExternalID:  "espn_401700002",
			Sport:       "nba",
			Season:      season,
			SeasonType:  models.SeasonTypeRegular,
			HomeTeamID:  &teams[2].ID,
			AwayTeamID:  &teams[3].ID,
			Status:      models.StatusScheduled,
			ScheduledAt: tipoff.Add(2 * time.Hour),
		},
	}

	if err := db.Create(&games).Error; err != nil {
		return fmt.Errorf("failed to create games: %w", err)
	}

	logrus.Infof("Seeded %d teams and %d games", len(teams), len(games))
	return nil
}
