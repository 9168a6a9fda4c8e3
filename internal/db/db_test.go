package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lessonforge/lessonforge/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, database.PingContext(context.Background()))

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, database.Close())

	reopened, err := db.Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSchema_HeartsBoundedByMax(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO users (id, hearts, max_hearts) VALUES ('u1', 6, 5)`)
	assert.Error(t, err)

	_, err = database.Exec(`INSERT INTO users (id, hearts, max_hearts) VALUES ('u2', -1, 5)`)
	assert.Error(t, err)

	_, err = database.Exec(`INSERT INTO users (id, role) VALUES ('u3', 'owner')`)
	assert.Error(t, err)
}

func TestTx_RollsBackOnError(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	boom := errors.New("boom")
	err = db.Tx(context.Background(), database.DB, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO users (id) VALUES ('u1')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 0, count)
}
