package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	// Override with environment if not provided
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	// Set formatter based on environment
	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(os.Stdout)

	// Store global logger reference
	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithSport creates a logger with sport context
func WithSport(sport string) *logrus.Entry {
	return GetLogger().WithField("sport", sport)
}

// WithRunID creates a logger with pipeline run context for log correlation
func WithRunID(runID string) *logrus.Entry {
	return GetLogger().WithField("run_id", runID)
}

// WithGameContext creates a logger with game context
func WithGameContext(sport string, gameID uint) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"sport":   sport,
		"game_id": gameID,
	})
}

// WithSeasonContext creates a logger with sport and season context
func WithSeasonContext(sport string, season int) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"sport":  sport,
		"season": season,
	})
}

// WithTeamContext creates a logger with team and season context
func WithTeamContext(teamID uint, season int) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"team_id": teamID,
		"season":  season,
	})
}
