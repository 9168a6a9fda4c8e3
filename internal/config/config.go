package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                   string
	DBPath                 string
	LogLevel               string
	LogFormat              string
	JWTSecret              string
	JWTIssuer              string
	Timezone               string
	DefaultMaxHearts       int
	HeartRegenHours        int
	DailyXPGoal            int
	DailyLessonsGoal       int
	QuizSessionTTLMinutes  int
	QuizRedirectDelayMS    int
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	LeaderboardWorkerCount int
	LeaderboardQueueSize   int
	MediaBaseURL           string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// .env is optional; production sets real environment variables.
	_ = godotenv.Load()

	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		DBPath:                 envOr("DB_PATH", "file:lessonforge.db"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		LogFormat:              envOr("LOG_FORMAT", "text"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		JWTIssuer:              os.Getenv("JWT_ISSUER"),
		Timezone:               envOr("TIMEZONE", "Local"),
		DefaultMaxHearts:       envIntOr("DEFAULT_MAX_HEARTS", 5),
		HeartRegenHours:        envIntOr("HEART_REGEN_HOURS", 24),
		DailyXPGoal:            envIntOr("DAILY_XP_GOAL", 50),
		DailyLessonsGoal:       envIntOr("DAILY_LESSONS_GOAL", 1),
		QuizSessionTTLMinutes:  envIntOr("QUIZ_SESSION_TTL_MINUTES", 120),
		QuizRedirectDelayMS:    envIntOr("QUIZ_REDIRECT_DELAY_MS", 2000),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                envIntOr("REDIS_DB", 0),
		LeaderboardWorkerCount: envIntOr("LEADERBOARD_WORKER_COUNT", 1),
		LeaderboardQueueSize:   envIntOr("LEADERBOARD_QUEUE_SIZE", 256),
		MediaBaseURL:           os.Getenv("MEDIA_BASE_URL"),
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json (got %q)", c.LogFormat))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE is invalid: %w", err))
	}
	if c.DefaultMaxHearts < 1 {
		errs = append(errs, fmt.Errorf("DEFAULT_MAX_HEARTS must be >= 1 (got %d)", c.DefaultMaxHearts))
	}
	if c.HeartRegenHours < 1 {
		errs = append(errs, fmt.Errorf("HEART_REGEN_HOURS must be >= 1 (got %d)", c.HeartRegenHours))
	}
	if c.DailyXPGoal < 1 {
		errs = append(errs, fmt.Errorf("DAILY_XP_GOAL must be >= 1 (got %d)", c.DailyXPGoal))
	}
	if c.DailyLessonsGoal < 1 {
		errs = append(errs, fmt.Errorf("DAILY_LESSONS_GOAL must be >= 1 (got %d)", c.DailyLessonsGoal))
	}
	if c.QuizSessionTTLMinutes < 1 {
		errs = append(errs, fmt.Errorf("QUIZ_SESSION_TTL_MINUTES must be >= 1 (got %d)", c.QuizSessionTTLMinutes))
	}
	if c.QuizRedirectDelayMS < 0 {
		errs = append(errs, fmt.Errorf("QUIZ_REDIRECT_DELAY_MS must be >= 0 (got %d)", c.QuizRedirectDelayMS))
	}
	if c.LeaderboardWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("LEADERBOARD_WORKER_COUNT must be >= 1 (got %d)", c.LeaderboardWorkerCount))
	}
	if c.LeaderboardQueueSize < 1 {
		errs = append(errs, fmt.Errorf("LEADERBOARD_QUEUE_SIZE must be >= 1 (got %d)", c.LeaderboardQueueSize))
	}

	return errors.Join(errs...)
}

// Location resolves Timezone. Calendar-day rules (streaks, daily goals) use it.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c Config) HeartRegenWindow() time.Duration {
	return time.Duration(c.HeartRegenHours) * time.Hour
}

func (c Config) QuizSessionTTL() time.Duration {
	return time.Duration(c.QuizSessionTTLMinutes) * time.Minute
}

func (c Config) QuizRedirectDelay() time.Duration {
	return time.Duration(c.QuizRedirectDelayMS) * time.Millisecond
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
