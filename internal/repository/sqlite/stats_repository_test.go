package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
	"github.com/lessonforge/lessonforge/internal/repository/sqlite"
	"github.com/lessonforge/lessonforge/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type StatsRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	stats repository.StatsRepository
	goals repository.DailyGoalRepository
}

func (s *StatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.stats = sqlite.NewStatsRepository(s.db)
	s.goals = sqlite.NewDailyGoalRepository(s.db)
}

func (s *StatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StatsRepositorySuite) TestIncrementAccumulates() {
	ctx := context.Background()
	userID := testutil.InsertUser(s.T(), s.db, 5, 5)

	empty, err := s.stats.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(0, empty.TotalQuestionsAnswered)

	s.Require().NoError(s.stats.Increment(ctx, userID, models.StatsDelta{QuestionsAnswered: 3, CorrectAnswers: 2, LessonsCompleted: 1, CurrentStreak: 4}))
	s.Require().NoError(s.stats.Increment(ctx, userID, models.StatsDelta{QuestionsAnswered: 3, CorrectAnswers: 3, CurrentStreak: 2}))

	got, err := s.stats.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(6, got.TotalQuestionsAnswered)
	s.Equal(5, got.CorrectAnswers)
	s.Equal(1, got.TotalLessonsCompleted)
	s.Equal(4, got.LongestStreak, "longest streak keeps the maximum")
}

func (s *StatsRepositorySuite) TestDailyGoalLazyCreateAndIncrement() {
	ctx := context.Background()
	userID := testutil.InsertUser(s.T(), s.db, 5, 5)

	g, err := s.goals.GetOrCreate(ctx, userID, "2026-05-01", 50, 1)
	s.Require().NoError(err)
	s.Equal(50, g.XPGoal)
	s.Equal(0, g.XPEarned)
	s.False(g.XPGoalMet())

	s.Require().NoError(s.goals.Increment(ctx, models.DailyGoal{UserID: userID, Date: "2026-05-01", XPGoal: 50, LessonsGoal: 1, XPEarned: 30, LessonsCompleted: 1}))
	s.Require().NoError(s.goals.Increment(ctx, models.DailyGoal{UserID: userID, Date: "2026-05-01", XPGoal: 99, LessonsGoal: 9, XPEarned: 25, LessonsCompleted: 1}))

	g, err = s.goals.GetOrCreate(ctx, userID, "2026-05-01", 70, 3)
	s.Require().NoError(err)
	s.Equal(50, g.XPGoal, "goals fixed when the row was created")
	s.Equal(55, g.XPEarned)
	s.Equal(2, g.LessonsCompleted)
	s.True(g.XPGoalMet())
	s.True(g.LessonsGoalMet())

	other, err := s.goals.GetOrCreate(ctx, userID, "2026-05-02", 50, 1)
	s.Require().NoError(err)
	s.Equal(0, other.XPEarned)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
