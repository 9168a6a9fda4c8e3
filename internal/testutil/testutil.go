package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/db"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is pinned to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), database), "failed to apply migrations")
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertUser creates a user row with the given hearts and returns its id.
func InsertUser(t *testing.T, database *sql.DB, hearts, maxHearts int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := database.Exec(`INSERT INTO users (id, hearts, max_hearts) VALUES (?, ?, ?)`, id, hearts, maxHearts)
	require.NoError(t, err)
	return id
}

// InsertModule creates a module and returns its id.
func InsertModule(t *testing.T, database *sql.DB, title string, requiredLevel, order int) int64 {
	t.Helper()
	res, err := database.Exec(`INSERT INTO modules (title, required_level, order_index) VALUES (?, ?, ?)`, title, requiredLevel, order)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertLesson creates a lesson in moduleID at position order and returns its id.
func InsertLesson(t *testing.T, database *sql.DB, moduleID int64, title string, order int, badgeID *int64) int64 {
	t.Helper()
	res, err := database.Exec(`INSERT INTO lessons (module_id, title, order_index, xp_reward, badge_id) VALUES (?, ?, ?, 10, ?)`, moduleID, title, order, badgeID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertBadge creates a badge and returns its id.
func InsertBadge(t *testing.T, database *sql.DB, name, requirement string, value int) int64 {
	t.Helper()
	res, err := database.Exec(`INSERT INTO badges (name, requirement_type, requirement_value) VALUES (?, ?, ?)`, name, requirement, value)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
