package seed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository/sqlite"
	"github.com/lessonforge/lessonforge/internal/seed"
	"github.com/lessonforge/lessonforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `
badges:
  - key: first-steps
    name: First Steps
  - key: week
    name: On Fire
    requirement: {type: streak, value: 7}
modules:
  - title: Basics
    lessons:
      - title: Greetings
        xp_reward: 20
        badge: first-steps
        questions:
          - prompt: Hello?
            xp: 15
            answers:
              - {text: Hi, correct: true}
              - {text: Bye}
          - prompt: Goodbye?
            answers:
              - {text: Hi}
              - {text: Bye, correct: true}
      - title: Numbers
  - title: Advanced
    required_level: 3
`

func TestParseAndApply(t *testing.T) {
	c, err := seed.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	database := testutil.NewTestDB(t)
	defer testutil.MustClose(t, database)
	content := sqlite.NewContentRepository(database)
	badges := sqlite.NewBadgeRepository(database)

	sum, err := seed.Apply(context.Background(), seed.Stores{Content: content, Badges: badges}, c)
	require.NoError(t, err)
	assert.Equal(t, seed.Summary{Badges: 2, Modules: 2, Lessons: 2, Questions: 2}, sum)

	ctx := context.Background()
	modules, err := content.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "Basics", modules[0].Title)
	assert.Equal(t, 3, modules[1].RequiredLevel)

	assert.Equal(t, 1, modules[0].RequiredLevel, "default level")

	_, err = seed.Apply(ctx, seed.Stores{Content: content, Badges: badges}, c)
	assert.ErrorIs(t, err, seed.ErrAlreadySeeded)
	modules, err = content.ListModules(ctx)
	require.NoError(t, err)
	assert.Len(t, modules, 2, "rerun inserts nothing")

	lessons, err := content.LessonsForModule(ctx, modules[0].ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	require.NotNil(t, lessons[0].BadgeID)
	assert.Nil(t, lessons[1].BadgeID)

	qs, err := content.QuestionsWithAnswers(ctx, lessons[0].ID)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, 15, qs[0].XPValue)
	assert.Equal(t, 10, qs[1].XPValue, "default xp")

	req, err := badges.ListWithRequirement(ctx)
	require.NoError(t, err)
	require.Len(t, req, 1)
	assert.Equal(t, models.RequirementStreak, req[0].RequirementType)
}

func TestParse_ReportsAllProblems(t *testing.T) {
	bad := `
badges:
  - key: b
    name: B
    requirement: {type: karma, value: 0}
modules:
  - title: M
    lessons:
      - title: L
        badge: missing
        questions:
          - prompt: Q
            answers:
              - {text: only}
`
	_, err := seed.Parse(strings.NewReader(bad))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "unknown requirement type")
	assert.Contains(t, msg, "requirement value must be positive")
	assert.Contains(t, msg, `unknown badge "missing"`)
	assert.Contains(t, msg, "needs at least two answers")
	assert.Contains(t, msg, "needs a correct answer")
}

func TestParse_RequiredLevelBelowOne(t *testing.T) {
	_, err := seed.Parse(strings.NewReader("modules:\n  - title: M\n    required_level: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required_level must be at least 1")
}

func TestParse_UnknownField(t *testing.T) {
	_, err := seed.Parse(strings.NewReader("modules:\n  - title: M\n    colour: red\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	c, err := seed.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, c.Modules)
}
