package services

import (
	"context"

	"github.com/lessonforge/lessonforge/internal/errors"
	"github.com/lessonforge/lessonforge/internal/leaderboard"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/media"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/progression"
	"github.com/lessonforge/lessonforge/internal/repository"
	"github.com/lessonforge/lessonforge/internal/status"
	"golang.org/x/sync/errgroup"
)

const (
	defaultLeaderboardLimit = 10
	// MaxLeaderboardLimit caps the entries one leaderboard request returns.
	MaxLeaderboardLimit = 100
)

type BadgeView struct {
	models.EarnedBadge
	ImageURL string `json:"image_url,omitempty"`
}

// ProgressReport is the dashboard/profile summary for one user.
type ProgressReport struct {
	Status      models.UserStatus    `json:"status"`
	Progression progression.Progress `json:"progression"`
	Stats       models.UserStats     `json:"stats"`
	Accuracy    float64              `json:"accuracy"`
	DailyGoal   DailyGoalView        `json:"daily_goal"`
	Badges      []BadgeView          `json:"badges"`
	Rank        int64                `json:"rank,omitempty"`
}

type DailyGoalView struct {
	models.DailyGoal
	XPGoalMet      bool `json:"xp_goal_met"`
	LessonsGoalMet bool `json:"lessons_goal_met"`
}

// ProgressService builds read-only summaries: the progress report and the
// leaderboard.
type ProgressService interface {
	Report(ctx context.Context, user *models.User) (*ProgressReport, error)
	Leaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

type progressService struct {
	stats  repository.StatsRepository
	goals  repository.DailyGoalRepository
	badges repository.BadgeRepository
	board  leaderboard.Board
	media  *media.Resolver
	cfg    ProgressionConfig
	clock  Clock
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	stats repository.StatsRepository,
	goals repository.DailyGoalRepository,
	badges repository.BadgeRepository,
	board leaderboard.Board,
	resolver *media.Resolver,
	cfg ProgressionConfig,
	clock Clock,
) ProgressService {
	return &progressService{
		stats:  stats,
		goals:  goals,
		badges: badges,
		board:  board,
		media:  resolver,
		cfg:    cfg,
		clock:  clock,
	}
}

// Report loads the user's aggregates concurrently. Today's daily goal row
// is created on first read. A failed leaderboard lookup only drops the rank.
func (s *progressService) Report(ctx context.Context, user *models.User) (*ProgressReport, error) {
	log := logger.FromContext(ctx)
	date := status.DateKey(s.clock.now(), s.cfg.location())

	var (
		stats  *models.UserStats
		goal   *models.DailyGoal
		earned []models.EarnedBadge
		rank   int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.stats.Get(gctx, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		goal, err = s.goals.GetOrCreate(gctx, user.ID, date, s.cfg.DailyXPGoal, s.cfg.DailyLessonsGoal)
		return err
	})
	g.Go(func() error {
		var err error
		earned, err = s.badges.ListForUser(gctx, user.ID)
		return err
	})
	if s.board != nil {
		g.Go(func() error {
			r, err := s.board.Rank(gctx, user.ID)
			if err == nil && r == 0 && user.XP > 0 {
				// XP earned before the board existed is only pushed here.
				if err = s.board.Update(gctx, user.ID, user.XP); err == nil {
					r, err = s.board.Rank(gctx, user.ID)
				}
			}
			if err != nil {
				log.Warn("leaderboard rank unavailable: %v", err)
				return nil
			}
			rank = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to build progress report: %v", err)
		return nil, errors.NewInternalError(err)
	}

	report := &ProgressReport{
		Status:      user.Status(),
		Progression: progression.Calculate(user.Level, user.XP),
		Stats:       *stats,
		Accuracy:    stats.Accuracy(),
		DailyGoal: DailyGoalView{
			DailyGoal:      *goal,
			XPGoalMet:      goal.XPGoalMet(),
			LessonsGoalMet: goal.LessonsGoalMet(),
		},
		Badges: make([]BadgeView, 0, len(earned)),
		Rank:   rank,
	}
	for _, b := range earned {
		report.Badges = append(report.Badges, BadgeView{EarnedBadge: b, ImageURL: s.media.URL(b.ImageKey)})
	}
	return report, nil
}

func (s *progressService) Leaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	log := logger.FromContext(ctx)
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	if s.board == nil {
		return []leaderboard.Entry{}, nil
	}

	entries, err := s.board.Top(ctx, limit)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return entries, nil
}
