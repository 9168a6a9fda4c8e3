package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lessonforge/lessonforge/internal/api"
	"github.com/lessonforge/lessonforge/internal/auth"
	"github.com/lessonforge/lessonforge/internal/config"
	"github.com/lessonforge/lessonforge/internal/db"
	"github.com/lessonforge/lessonforge/internal/leaderboard"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/media"
	"github.com/lessonforge/lessonforge/internal/metrics"
	"github.com/lessonforge/lessonforge/internal/quiz"
	"github.com/lessonforge/lessonforge/internal/repository"
	"github.com/lessonforge/lessonforge/internal/repository/sqlite"
	"github.com/lessonforge/lessonforge/internal/services"
	"github.com/lessonforge/lessonforge/internal/worker"
	"github.com/redis/go-redis/v9"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(cfg.LogFormat != "json"),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LessonForge Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("default_max_hearts=%d", cfg.DefaultMaxHearts)
	log.Debug("heart_regen_hours=%d", cfg.HeartRegenHours)
	log.Debug("quiz_session_ttl_minutes=%d", cfg.QuizSessionTTLMinutes)
	log.Debug("redis_addr=%s", cfg.RedisAddr)
	log.Debug("media_base_url=%s", cfg.MediaBaseURL)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("failed to load timezone: %v", err)
		os.Exit(1)
	}
	resolver, err := media.NewResolver(cfg.MediaBaseURL)
	if err != nil {
		log.Error("invalid media base url: %v", err)
		os.Exit(1)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	users := sqlite.NewUserRepository(database.DB)
	content := sqlite.NewContentRepository(database.DB)
	progress := sqlite.NewProgressRepository(database.DB)
	badges := sqlite.NewBadgeRepository(database.DB)
	stats := sqlite.NewStatsRepository(database.DB)
	goals := sqlite.NewDailyGoalRepository(database.DB)

	board, closeBoard := newLeaderboard(cfg, users)
	defer closeBoard()

	leaderboardPool := worker.NewPool(cfg.LeaderboardWorkerCount, cfg.LeaderboardQueueSize)
	store := quiz.NewStore(cfg.QuizSessionTTL())
	m := metrics.New()

	rules := services.ProgressionConfig{
		DefaultMaxHearts: cfg.DefaultMaxHearts,
		HeartRegenWindow: cfg.HeartRegenWindow(),
		Location:         loc,
		DailyXPGoal:      cfg.DailyXPGoal,
		DailyLessonsGoal: cfg.DailyLessonsGoal,
		RedirectDelay:    cfg.QuizRedirectDelay(),
	}

	accessService := services.NewAccessService(users, content, progress, resolver)
	quizService := services.NewQuizService(
		services.QuizRepositories{
			Users:    users,
			Content:  content,
			Progress: progress,
			Badges:   badges,
			Stats:    stats,
			Goals:    goals,
		},
		accessService, store, leaderboardPool, board, m, rules, nil,
	)

	srv := &api.Server{
		StatusService:   services.NewStatusService(users, rules, nil),
		AccessService:   accessService,
		QuizService:     quizService,
		ProgressService: services.NewProgressService(stats, goals, badges, board, resolver, rules, nil),
		Verifier:        auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		DB:              database.DB,
		Metrics:         m,
	}

	ctx, cancel := context.WithCancel(context.Background())
	leaderboardPool.Start(ctx)
	go sweepSessions(ctx, store, m)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Queued leaderboard updates drain before the workers' context goes away.
	log.Debug("stopping leaderboard pool")
	leaderboardPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("LessonForge Server Stopped")
	log.Info("===========================================")
}

// newLeaderboard uses Redis when REDIS_ADDR is set and reachable, otherwise
// ranks straight from the users table.
func newLeaderboard(cfg config.Config, users repository.UserRepository) (leaderboard.Board, func()) {
	log := logger.Default().WithPrefix("leaderboard")
	if cfg.RedisAddr == "" {
		log.Info("no redis configured, ranking from database")
		return leaderboard.NewStoreBoard(users), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable at %s, ranking from database: %v", cfg.RedisAddr, err)
		client.Close()
		return leaderboard.NewStoreBoard(users), func() {}
	}
	log.Info("using redis leaderboard at %s", cfg.RedisAddr)
	board := leaderboard.NewRedisBoard(client)
	if _, err := board.Backfill(ctx, users, services.MaxLeaderboardLimit); err != nil {
		log.Warn("leaderboard backfill failed: %v", err)
	}
	return board, func() { client.Close() }
}

func sweepSessions(ctx context.Context, store *quiz.Store, m *metrics.Metrics) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := store.Sweep(now); n > 0 {
				logger.Debug("expired %d quiz sessions", n)
			}
			m.ActiveSessions.Set(float64(store.Len()))
		}
	}
}
