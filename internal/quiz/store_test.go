package quiz_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionFor(t *testing.T, userID uuid.UUID, lessonID int64, now time.Time) *quiz.Session {
	t.Helper()
	s, err := quiz.New(uuid.New(), userID, models.Lesson{ID: lessonID}, []models.QuestionWithAnswers{question(1, 10)}, now)
	require.NoError(t, err)
	return s
}

func TestStore_PutGet(t *testing.T) {
	now := time.Now()
	st := quiz.NewStore(time.Hour)
	user := uuid.New()
	s := sessionFor(t, user, 1, now)

	_, replaced := st.Put(s)
	assert.False(t, replaced)

	got, ok := st.Get(s.ID, user, now.Add(time.Minute))
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, now.Add(time.Minute), got.LastSeen)
}

func TestStore_OtherUserCannotRead(t *testing.T) {
	now := time.Now()
	st := quiz.NewStore(time.Hour)
	s := sessionFor(t, uuid.New(), 1, now)
	st.Put(s)

	_, ok := st.Get(s.ID, uuid.New(), now)
	assert.False(t, ok)
}

func TestStore_RestartReplacesSession(t *testing.T) {
	now := time.Now()
	st := quiz.NewStore(time.Hour)
	user := uuid.New()
	first := sessionFor(t, user, 1, now)
	second := sessionFor(t, user, 1, now)

	st.Put(first)
	old, replaced := st.Put(second)

	assert.True(t, replaced)
	assert.Equal(t, first.ID, old)
	_, ok := st.Get(first.ID, user, now)
	assert.False(t, ok)
	assert.Equal(t, 1, st.Len())
}

func TestStore_ExpiresIdleSessions(t *testing.T) {
	now := time.Now()
	st := quiz.NewStore(time.Hour)
	user := uuid.New()
	stale := sessionFor(t, user, 1, now)
	fresh := sessionFor(t, user, 2, now.Add(50*time.Minute))
	st.Put(stale)
	st.Put(fresh)

	removed := st.Sweep(now.Add(90 * time.Minute))

	assert.Equal(t, 1, removed)
	_, ok := st.Get(fresh.ID, user, now.Add(90*time.Minute))
	assert.True(t, ok)

	_, ok = st.Get(fresh.ID, user, now.Add(5*time.Hour))
	assert.False(t, ok, "expired on access")
	assert.Equal(t, 0, st.Len())
}

func TestStore_Delete(t *testing.T) {
	now := time.Now()
	st := quiz.NewStore(time.Hour)
	user := uuid.New()
	s := sessionFor(t, user, 1, now)
	st.Put(s)

	st.Delete(s.ID)

	_, ok := st.Get(s.ID, user, now)
	assert.False(t, ok)
	assert.Equal(t, 0, st.Len())
}
