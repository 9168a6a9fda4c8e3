package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/repository"
	"github.com/lessonforge/lessonforge/internal/repository/sqlite"
	"github.com/lessonforge/lessonforge/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.ProgressRepository
	userID   uuid.UUID
	moduleID int64
	lessonA  int64
	lessonB  int64
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
	s.userID = testutil.InsertUser(s.T(), s.db, 5, 5)
	s.moduleID = testutil.InsertModule(s.T(), s.db, "Basics", 1, 0)
	s.lessonA = testutil.InsertLesson(s.T(), s.db, s.moduleID, "A", 0, nil)
	s.lessonB = testutil.InsertLesson(s.T(), s.db, s.moduleID, "B", 1, nil)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) TestMarkCompletedReportsFirstTimeOnly() {
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.repo.MarkCompleted(ctx, s.userID, s.lessonA, 20, at)
	s.Require().NoError(err)
	s.True(first)

	first, err = s.repo.MarkCompleted(ctx, s.userID, s.lessonA, 30, at.Add(time.Hour))
	s.Require().NoError(err)
	s.False(first)

	p, err := s.repo.Get(ctx, s.userID, s.lessonA)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.True(p.Completed)
	s.Equal(30, p.Score)
	s.Require().NotNil(p.CompletedAt)
	s.True(at.Add(time.Hour).Equal(*p.CompletedAt))

	var rows int
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM user_progress`).Scan(&rows))
	s.Equal(1, rows)
}

func (s *ProgressRepositorySuite) TestCompletedLessonIDsScopedToModule() {
	ctx := context.Background()
	other := testutil.InsertModule(s.T(), s.db, "Other", 1, 1)
	otherLesson := testutil.InsertLesson(s.T(), s.db, other, "X", 0, nil)

	_, err := s.repo.MarkCompleted(ctx, s.userID, s.lessonA, 10, time.Now())
	s.Require().NoError(err)
	_, err = s.repo.MarkCompleted(ctx, s.userID, otherLesson, 10, time.Now())
	s.Require().NoError(err)

	completed, err := s.repo.CompletedLessonIDs(ctx, s.userID, s.moduleID)
	s.Require().NoError(err)
	s.Equal(map[int64]bool{s.lessonA: true}, completed)
}

func (s *ProgressRepositorySuite) TestGetMissing() {
	p, err := s.repo.Get(context.Background(), s.userID, s.lessonB)
	s.NoError(err)
	s.Nil(p)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
