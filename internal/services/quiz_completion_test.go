package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/lessonforge/lessonforge/internal/metrics"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/quiz"
	"github.com/lessonforge/lessonforge/internal/repository/sqlite"
	"github.com/lessonforge/lessonforge/internal/services"
	"github.com/lessonforge/lessonforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance_CompletionOutlivesCancelledRequest(t *testing.T) {
	database := testutil.NewTestDB(t)
	defer testutil.MustClose(t, database)
	ctx := context.Background()

	userID := testutil.InsertUser(t, database, 5, 5)
	moduleID := testutil.InsertModule(t, database, "Basics", 1, 0)
	lessonID := testutil.InsertLesson(t, database, moduleID, "Greetings", 0, nil)

	content := sqlite.NewContentRepository(database)
	_, err := content.InsertQuestion(ctx, models.QuestionWithAnswers{
		Question: models.Question{LessonID: lessonID, Prompt: "Hola?", XPValue: 10},
		Answers: []models.Answer{
			{Text: "Hello", IsCorrect: true},
			{Text: "Goodbye", OrderIndex: 1},
		},
	})
	require.NoError(t, err)

	users := sqlite.NewUserRepository(database)
	progress := sqlite.NewProgressRepository(database)
	repos := services.QuizRepositories{
		Users:    users,
		Content:  content,
		Progress: progress,
		Badges:   sqlite.NewBadgeRepository(database),
		Stats:    sqlite.NewStatsRepository(database),
		Goals:    sqlite.NewDailyGoalRepository(database),
	}
	svc := services.NewQuizService(repos, &stubAccess{}, quiz.NewStore(time.Hour), &recordingJobs{}, nopBoard{}, metrics.New(), testConfig(), fixedClock())

	view, err := svc.Start(ctx, userID, lessonID)
	require.NoError(t, err)
	require.NotNil(t, view.SessionID)
	require.NotNil(t, view.Question)
	id := *view.SessionID

	_, err = svc.Select(ctx, userID, id, view.Question.Answers[0].ID)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, userID, id)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	view, err = svc.Advance(cancelled, userID, id)
	require.NoError(t, err)
	assert.Equal(t, string(quiz.StateCompleted), view.State)
	require.NotNil(t, view.Completion)
	assert.Empty(t, view.Completion.FailedSteps)

	row, err := progress.Get(ctx, userID, lessonID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.Completed)
	assert.Equal(t, 10, row.Score)

	user, err := users.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 10, user.XP)
}
