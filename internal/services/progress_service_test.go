package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/errors"
	"github.com/lessonforge/lessonforge/internal/leaderboard"
	"github.com/lessonforge/lessonforge/internal/media"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/services"
	"github.com/lessonforge/lessonforge/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubBoard struct {
	rank    int64
	rankErr error
}

func (b *stubBoard) Update(context.Context, uuid.UUID, int) error { return nil }

func (b *stubBoard) Rank(context.Context, uuid.UUID) (int64, error) {
	return b.rank, b.rankErr
}

func (b *stubBoard) Top(context.Context, int) ([]leaderboard.Entry, error) {
	return nil, nil
}

func newProgressService(t *testing.T, stats *mocks.MockStatsRepository, goals *mocks.MockDailyGoalRepository, badges *mocks.MockBadgeRepository, board leaderboard.Board) services.ProgressService {
	t.Helper()
	resolver, err := media.NewResolver("https://cdn.example.com")
	require.NoError(t, err)
	return services.NewProgressService(stats, goals, badges, board, resolver, testConfig(), fixedClock())
}

func TestReport_CombinesAggregates(t *testing.T) {
	stats := new(mocks.MockStatsRepository)
	goals := new(mocks.MockDailyGoalRepository)
	badges := new(mocks.MockBadgeRepository)
	user := &models.User{ID: uuid.New(), XP: 250, Level: 2, Hearts: 4, MaxHearts: 5, StreakCount: 6}

	stats.On("Get", mock.Anything, user.ID).Return(&models.UserStats{
		UserID: user.ID, TotalQuestionsAnswered: 8, CorrectAnswers: 6, TotalLessonsCompleted: 3, LongestStreak: 6,
	}, nil)
	goals.On("GetOrCreate", mock.Anything, user.ID, "2026-03-10", 50, 1).Return(&models.DailyGoal{
		UserID: user.ID, Date: "2026-03-10", XPGoal: 50, LessonsGoal: 1, XPEarned: 60,
	}, nil)
	badges.On("ListForUser", mock.Anything, user.ID).Return([]models.EarnedBadge{
		{Badge: models.Badge{ID: 3, Name: "Starter", ImageKey: "badges/starter.png"}, EarnedAt: testNow.Add(-time.Hour)},
	}, nil)

	svc := newProgressService(t, stats, goals, badges, &stubBoard{rank: 4})
	report, err := svc.Report(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Progression.Level)
	assert.Equal(t, 100, report.Progression.CurrentLevelXP)
	assert.Equal(t, 400, report.Progression.NextLevelXP)
	assert.Equal(t, 50, report.Progression.ProgressPercent)
	assert.Equal(t, 4, report.Status.Hearts)
	assert.InDelta(t, 75.0, report.Accuracy, 0.001)
	assert.True(t, report.DailyGoal.XPGoalMet)
	assert.False(t, report.DailyGoal.LessonsGoalMet)
	require.Len(t, report.Badges, 1)
	assert.Equal(t, "https://cdn.example.com/badges/starter.png", report.Badges[0].ImageURL)
	assert.Equal(t, int64(4), report.Rank)
}

func TestReport_RankFailureIsNotFatal(t *testing.T) {
	stats := new(mocks.MockStatsRepository)
	goals := new(mocks.MockDailyGoalRepository)
	badges := new(mocks.MockBadgeRepository)
	user := &models.User{ID: uuid.New(), Level: 1}

	stats.On("Get", mock.Anything, user.ID).Return(&models.UserStats{UserID: user.ID}, nil)
	goals.On("GetOrCreate", mock.Anything, user.ID, mock.Anything, 50, 1).Return(&models.DailyGoal{XPGoal: 50, LessonsGoal: 1}, nil)
	badges.On("ListForUser", mock.Anything, user.ID).Return(nil, nil)

	svc := newProgressService(t, stats, goals, badges, &stubBoard{rankErr: fmt.Errorf("connection refused")})
	report, err := svc.Report(context.Background(), user)

	require.NoError(t, err)
	assert.Zero(t, report.Rank)
	assert.NotNil(t, report.Badges)
	assert.Empty(t, report.Badges)
}

// mapBoard ranks only users it has been told about.
type mapBoard struct {
	xp map[uuid.UUID]int
}

func (b *mapBoard) Update(_ context.Context, id uuid.UUID, xp int) error {
	b.xp[id] = xp
	return nil
}

func (b *mapBoard) Rank(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := b.xp[id]; !ok {
		return 0, nil
	}
	return int64(len(b.xp)), nil
}

func (b *mapBoard) Top(context.Context, int) ([]leaderboard.Entry, error) {
	return nil, nil
}

func TestReport_RanksUserMissingFromBoard(t *testing.T) {
	stats := new(mocks.MockStatsRepository)
	goals := new(mocks.MockDailyGoalRepository)
	badges := new(mocks.MockBadgeRepository)
	user := &models.User{ID: uuid.New(), XP: 320, Level: 2}

	stats.On("Get", mock.Anything, user.ID).Return(&models.UserStats{UserID: user.ID}, nil)
	goals.On("GetOrCreate", mock.Anything, user.ID, mock.Anything, 50, 1).Return(&models.DailyGoal{XPGoal: 50, LessonsGoal: 1}, nil)
	badges.On("ListForUser", mock.Anything, user.ID).Return(nil, nil)

	board := &mapBoard{xp: map[uuid.UUID]int{uuid.New(): 900}}
	svc := newProgressService(t, stats, goals, badges, board)
	report, err := svc.Report(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, 320, board.xp[user.ID])
	assert.Equal(t, int64(2), report.Rank)
}

func TestReport_StoreFailure(t *testing.T) {
	stats := new(mocks.MockStatsRepository)
	goals := new(mocks.MockDailyGoalRepository)
	badges := new(mocks.MockBadgeRepository)
	user := &models.User{ID: uuid.New(), Level: 1}

	stats.On("Get", mock.Anything, user.ID).Return(nil, fmt.Errorf("database is locked"))
	goals.On("GetOrCreate", mock.Anything, user.ID, mock.Anything, 50, 1).Return(&models.DailyGoal{}, nil).Maybe()
	badges.On("ListForUser", mock.Anything, user.ID).Return(nil, nil).Maybe()

	svc := newProgressService(t, stats, goals, badges, nil)
	_, err := svc.Report(context.Background(), user)

	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}

func TestLeaderboard_ClampsLimit(t *testing.T) {
	users := new(mocks.MockUserRepository)
	a, b := uuid.New(), uuid.New()
	users.On("TopByXP", mock.Anything, 10).Return([]models.User{{ID: a, XP: 500}, {ID: b, XP: 90}}, nil).Once()
	users.On("TopByXP", mock.Anything, 100).Return([]models.User{}, nil).Once()

	svc := newProgressService(t, nil, nil, nil, leaderboard.NewStoreBoard(users))
	ctx := context.Background()

	entries, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []leaderboard.Entry{
		{UserID: a, XP: 500, Rank: 1},
		{UserID: b, XP: 90, Rank: 2},
	}, entries)

	entries, err = svc.Leaderboard(ctx, 5000)
	require.NoError(t, err)
	assert.Empty(t, entries)
	users.AssertExpectations(t)
}
