package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hoopmetrics/prediction-engine/internal/engine"
	"github.com/hoopmetrics/prediction-engine/internal/models"
	"github.com/hoopmetrics/prediction-engine/internal/repository"
	"github.com/hoopmetrics/prediction-engine/internal/sports"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
)

// MetricsService computes per-season team efficiency records and runs the
// opponent adjustment solver over a season.
type MetricsService struct {
	db      *database.DB
	games   *repository.GameRepository
	teams   *repository.TeamRepository
	stats   *repository.StatRepository
	metrics *repository.MetricRepository
	logger  *logrus.Logger
}

func NewMetricsService(db *database.DB, logger *logrus.Logger) *MetricsService {
	return &MetricsService{
		db:      db,
		games:   repository.NewGameRepository(db),
		teams:   repository.NewTeamRepository(db),
		stats:   repository.NewStatRepository(db),
		metrics: repository.NewMetricRepository(db),
		logger:  logger,
	}
}

// Execute recomputes one team's season metric record and upserts it.
// Returns (nil, nil) when the team has no completed games or no
// resolvable stat rows: insufficient data, not an error.
func (s *MetricsService) Execute(ctx context.Context, team *models.Team, season int) (*models.TeamMetric, error) {
	if team == nil {
		return nil, nil
	}

	cfg, err := sports.ProfileFor(team.Sport)
	if err != nil {
		return nil, err
	}

	games, err := s.games.FinalByTeamSeason(team.ID, season)
	if err != nil {
		return nil, fmt.Errorf("loading games for team %d season %d: %w", team.ID, season, err)
	}
	if len(games) == 0 {
		return nil, nil
	}

	gameIDs := make([]uint, len(games))
	for i, g := range games {
		gameIDs[i] = g.ID
	}
	statsByGame, err := s.stats.ByGames(gameIDs)
	if err != nil {
		return nil, fmt.Errorf("loading stats for team %d season %d: %w", team.ID, season, err)
	}

	ratings, err := s.currentRatings(team.Sport)
	if err != nil {
		return nil, err
	}

	var metricGames []engine.MetricGame
	for _, g := range games {
		if !g.HasTeams() {
			continue
		}
		opponentID := *g.AwayTeamID
		home := *g.HomeTeamID == team.ID
		if !home {
			opponentID = *g.HomeTeamID
		}

		rows := statsByGame[g.ID]
		if rows == nil {
			continue
		}
		own, opp := rows[team.ID], rows[opponentID]
		if own == nil || opp == nil {
			continue
		}

		mg := engine.MetricGame{
			GameID: g.ID,
			Home:   home,
			Own:    statLine(own),
			Opp:    statLine(opp),
		}
		if rating, ok := ratings[opponentID]; ok {
			mg.OpponentRating = &rating
		}
		metricGames = append(metricGames, mg)
	}

	result := engine.CalculateMetrics(metricGames, cfg)
	if result == nil {
		return nil, nil
	}

	metric := toMetricModel(team, season, result)
	if err := s.metrics.Upsert(metric); err != nil {
		return nil, fmt.Errorf("upserting metrics for team %d season %d: %w", team.ID, season, err)
	}

	return metric, nil
}

// RunAdjustment runs the fixed-iteration opponent adjustment over one
// sport/season and writes the adj_* columns back. A season with no team
// meeting the minimum-games threshold is a no-op.
func (s *MetricsService) RunAdjustment(ctx context.Context, sport string, season int) error {
	cfg, err := sports.ProfileFor(sport)
	if err != nil {
		return err
	}

	metrics, err := s.metrics.BySeason(sport, season)
	if err != nil {
		return fmt.Errorf("loading metrics for %s %d: %w", sport, season, err)
	}
	if len(metrics) == 0 {
		return nil
	}

	games, err := s.games.FinalBySeason(sport, season)
	if err != nil {
		return fmt.Errorf("loading games for %s %d: %w", sport, season, err)
	}
	gameIDs := make([]uint, len(games))
	for i, g := range games {
		gameIDs[i] = g.ID
	}
	statsByGame, err := s.stats.ByGames(gameIDs)
	if err != nil {
		return fmt.Errorf("loading stats for %s %d: %w", sport, season, err)
	}

	adjustTeams := make([]*engine.AdjustTeam, len(metrics))
	for i := range metrics {
		m := &metrics[i]
		adjustTeams[i] = &engine.AdjustTeam{
			TeamID:       m.TeamID,
			GamesPlayed:  m.GamesPlayed,
			MeetsMinimum: m.MeetsMinimum,
			RawOffense:   m.OffensiveEfficiency,
			RawDefense:   m.DefensiveEfficiency,
			RawTempo:     m.Tempo,
		}
	}

	var adjustGames []engine.AdjustGame
	for _, g := range games {
		if !g.HasTeams() {
			continue
		}
		rows := statsByGame[g.ID]
		if rows == nil {
			continue
		}
		home, away := rows[*g.HomeTeamID], rows[*g.AwayTeamID]
		if home == nil || away == nil {
			continue
		}
		adjustGames = append(adjustGames, engine.AdjustGame{
			HomeID:          *g.HomeTeamID,
			AwayID:          *g.AwayTeamID,
			HomePoints:      home.Points,
			AwayPoints:      away.Points,
			HomePossessions: engine.EstimatePossessions(statLine(home), cfg.PossessionCoefficient),
			AwayPossessions: engine.EstimatePossessions(statLine(away), cfg.PossessionCoefficient),
		})
	}

	iterations := engine.AdjustMetrics(adjustTeams, adjustGames, cfg)
	if iterations == 0 {
		s.logger.WithFields(logrus.Fields{"sport": sport, "season": season}).
			Debug("No teams meet minimum games, skipping opponent adjustment")
		return nil
	}

	byTeam := make(map[uint]*engine.AdjustTeam, len(adjustTeams))
	for _, t := range adjustTeams {
		byTeam[t.TeamID] = t
	}
	for i := range metrics {
		m := &metrics[i]
		t := byTeam[m.TeamID]
		m.AdjOffensiveEfficiency = &t.AdjOffense
		m.AdjDefensiveEfficiency = &t.AdjDefense
		m.AdjNetRating = &t.AdjNet
		m.AdjTempo = &t.AdjTempo
		m.AdjustmentIterations = iterations
		if err := s.metrics.Save(m); err != nil {
			return fmt.Errorf("saving adjusted metrics for team %d: %w", m.TeamID, err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"sport":      sport,
		"season":     season,
		"teams":      len(metrics),
		"iterations": iterations,
	}).Info("Opponent adjustment completed")

	return nil
}

func (s *MetricsService) currentRatings(sport string) (map[uint]int, error) {
	teams, err := s.teams.BySport(sport)
	if err != nil {
		return nil, fmt.Errorf("loading teams for %s: %w", sport, err)
	}
	ratings := make(map[uint]int, len(teams))
	for _, t := range teams {
		if !t.HasDefaultElo() {
			ratings[t.ID] = t.CurrentElo
		}
	}
	return ratings, nil
}

func statLine(stat *models.TeamStat) engine.StatLine {
	return engine.StatLine{
		Points:              stat.Points,
		FieldGoalsAttempted: stat.FieldGoalsAttempted,
		FreeThrowsAttempted: stat.FreeThrowsAttempted,
		OffensiveRebounds:   stat.OffensiveRebounds,
		DefensiveRebounds:   stat.DefensiveRebounds,
		Turnovers:           stat.Turnovers,
		Possessions:         stat.Possessions,
	}
}

func toMetricModel(team *models.Team, season int, r *engine.MetricResult) *models.TeamMetric {
	metric := &models.TeamMetric{
		TeamID:              team.ID,
		Season:              season,
		Sport:               team.Sport,
		GamesPlayed:         r.GamesPlayed,
		MeetsMinimum:        r.MeetsMinimum,
		OffensiveEfficiency: r.OffensiveEfficiency,
		DefensiveEfficiency: r.DefensiveEfficiency,
		NetRating:           r.NetRating,
		Tempo:               r.Tempo,
		StrengthOfSchedule:  r.StrengthOfSchedule,
		TurnoverMargin:      r.TurnoverMargin,
		ReboundMargin:       r.ReboundMargin,
	}
	if r.Rolling != nil {
		metric.RollingOffensiveEfficiency = &r.Rolling.OffensiveEfficiency
		metric.RollingDefensiveEfficiency = &r.Rolling.DefensiveEfficiency
		metric.RollingNetRating = &r.Rolling.NetRating
	}
	if r.Home != nil {
		metric.HomeOffensiveEfficiency = &r.Home.OffensiveEfficiency
		metric.HomeDefensiveEfficiency = &r.Home.DefensiveEfficiency
	}
	if r.Away != nil {
		metric.AwayOffensiveEfficiency = &r.Away.OffensiveEfficiency
		metric.AwayDefensiveEfficiency = &r.Away.DefensiveEfficiency
	}
	return metric
}
