package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/db"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID uuid.UUID, lessonID int64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: user_id=%s, lesson_id=%d", userID, lessonID)

	var (
		p           models.UserProgress
		completedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, lesson_id, completed, score, completed_at
FROM user_progress
WHERE user_id = ? AND lesson_id = ?
`, userID, lessonID).Scan(&p.UserID, &p.LessonID, &p.Completed, &p.Score, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	p.CompletedAt = timePtr(completedAt)
	return &p, nil
}

// CompletedLessonIDs returns the set of the module's lessons the user has
// completed.
func (r *progressRepository) CompletedLessonIDs(ctx context.Context, userID uuid.UUID, moduleID int64) (map[int64]bool, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing completed lessons: user_id=%s, module_id=%d", userID, moduleID)

	rows, err := r.db.QueryContext(ctx, `
SELECT p.lesson_id
FROM user_progress p
JOIN lessons l ON l.id = p.lesson_id
WHERE p.user_id = ? AND l.module_id = ? AND p.completed = 1
`, userID, moduleID)
	if err != nil {
		log.Error("failed to list completed lessons: %v", err)
		return nil, err
	}
	defer rows.Close()

	completed := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan lesson id: %v", err)
			return nil, err
		}
		completed[id] = true
	}
	return completed, rows.Err()
}

// MarkCompleted upserts the completion row and reports whether this is the
// first time the lesson was completed.
func (r *progressRepository) MarkCompleted(ctx context.Context, userID uuid.UUID, lessonID int64, score int, at time.Time) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("marking lesson completed: user_id=%s, lesson_id=%d, score=%d", userID, lessonID, score)

	first := false
	err := db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		var completed bool
		err := tx.QueryRowContext(ctx, `SELECT completed FROM user_progress WHERE user_id = ? AND lesson_id = ?`, userID, lessonID).Scan(&completed)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			first = true
		case err != nil:
			return err
		default:
			first = !completed
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO user_progress (user_id, lesson_id, completed, score, completed_at)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT(user_id, lesson_id) DO UPDATE SET
    completed = 1,
    score = excluded.score,
    completed_at = excluded.completed_at
`, userID, lessonID, score, at.UTC())
		return err
	})
	if err != nil {
		log.Error("failed to mark lesson completed: %v", err)
		return false, err
	}
	log.Debug("lesson completed: user_id=%s, lesson_id=%d, first=%t", userID, lessonID, first)
	return first, nil
}
