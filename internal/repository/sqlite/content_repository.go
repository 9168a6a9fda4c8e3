package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/lessonforge/lessonforge/internal/db"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
)

const (
	moduleColumns = `id, title, description, image_key, required_level, is_premium, order_index, created_at`
	lessonColumns = `id, module_id, title, content, image_key, order_index, xp_reward, badge_id, created_at`
)

type contentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new ContentRepository implementation
func NewContentRepository(db *sql.DB) repository.ContentRepository {
	return &contentRepository{db: db}
}

func scanModule(row scanner) (*models.Module, error) {
	var m models.Module
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.ImageKey, &m.RequiredLevel, &m.IsPremium, &m.OrderIndex, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanLesson(row scanner) (*models.Lesson, error) {
	var (
		l     models.Lesson
		badge sql.NullInt64
	)
	if err := row.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.ImageKey, &l.OrderIndex, &l.XPReward, &badge, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.BadgeID = int64Ptr(badge)
	return &l, nil
}

func (r *contentRepository) ListModules(ctx context.Context) ([]models.Module, error) {
	log := logger.FromContext(ctx).WithPrefix("content_repo")
	log.Debug("listing modules")

	rows, err := r.db.QueryContext(ctx, `SELECT `+moduleColumns+` FROM modules ORDER BY order_index, id`)
	if err != nil {
		log.Error("failed to list modules: %v", err)
		return nil, err
	}
	defer rows.Close()

	var modules []models.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			log.Error("failed to scan module row: %v", err)
			return nil, err
		}
		modules = append(modules, *m)
	}
	log.Debug("found %d modules", len(modules))
	return modules, rows.Err()
}

func (r *contentRepository) GetModule(ctx context.Context, id int64) (*models.Module, error) {
	log := logger.FromContext(ctx).WithPrefix("content_repo")
	log.Debug("getting module: id=%d", id)

	m, err := scanModule(r.db.QueryRowContext(ctx, `SELECT `+moduleColumns+` FROM modules WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("module not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get module: %v", err)
		return nil, err
	}
	return m, nil
}

func (r *contentRepository) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("content_repo")
	log.Debug("getting lesson: id=%d", id)

	l, err := scanLesson(r.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("lesson not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get lesson: %v", err)
		return nil, err
	}
	return l, nil
}

// LessonsForModule returns the module's lessons in unlock order.
func (r *contentRepository) LessonsForModule(ctx context.Context, moduleID int64) ([]models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("content_repo")
	log.Debug("listing lessons: module_id=%d", moduleID)

	query, args, err := sqlBuilder.Select(lessonColumns).From("lessons").
		Where(squirrel.Eq{"module_id": moduleID}).
		OrderBy("order_index ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list lessons: %v", err)
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			log.Error("failed to scan lesson row: %v", err)
			return nil, err
		}
		lessons = append(lessons, *l)
	}
	log.Debug("found %d lessons", len(lessons))
	return lessons, rows.Err()
}

// QuestionsWithAnswers loads a lesson's questions and their answers, both in
// display order, with one query.
func (r *contentRepository) QuestionsWithAnswers(ctx context.Context, lessonID int64) ([]models.QuestionWithAnswers, error) {
	log := logger.FromContext(ctx).WithPrefix("content_repo")
	log.Debug("loading questions: lesson_id=%d", lessonID)

	rows, err := r.db.QueryContext(ctx, `
SELECT q.id, q.lesson_id, q.prompt, q.order_index, q.xp_value,
       a.id, a.text, a.is_correct, a.order_index
FROM questions q
LEFT JOIN answers a ON a.question_id = q.id
WHERE q.lesson_id = ?
ORDER BY q.order_index, q.id, a.order_index, a.id
`, lessonID)
	if err != nil {
		log.Error("failed to load questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.QuestionWithAnswers
	for rows.Next() {
		var (
			q          models.Question
			answerID   sql.NullInt64
			text       sql.NullString
			isCorrect  sql.NullBool
			answerSort sql.NullInt64
		)
		if err := rows.Scan(&q.ID, &q.LessonID, &q.Prompt, &q.OrderIndex, &q.XPValue, &answerID, &text, &isCorrect, &answerSort); err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != q.ID {
			out = append(out, models.QuestionWithAnswers{Question: q})
		}
		if answerID.Valid {
			cur := &out[len(out)-1]
			cur.Answers = append(cur.Answers, models.Answer{
				ID:         answerID.Int64,
				QuestionID: q.ID,
				Text:       text.String,
				IsCorrect:  isCorrect.Bool,
				OrderIndex: int(answerSort.Int64),
			})
		}
	}
	log.Debug("loaded %d questions", len(out))
	return out, rows.Err()
}

func (r *contentRepository) InsertModule(ctx context.Context, m models.Module) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("content_repo")
	log.Debug("inserting module: title=%s", m.Title)

	if m.RequiredLevel < 1 {
		m.RequiredLevel = 1
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO modules (title, description, image_key, required_level, is_premium, order_index)
VALUES (?, ?, ?, ?, ?, ?)
`, m.Title, m.Description, m.ImageKey, m.RequiredLevel, m.IsPremium, m.OrderIndex)
	if err != nil {
		log.Error("failed to insert module: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *contentRepository) InsertLesson(ctx context.Context, l models.Lesson) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("content_repo")
	log.Debug("inserting lesson: module_id=%d, order_index=%d", l.ModuleID, l.OrderIndex)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO lessons (module_id, title, content, image_key, order_index, xp_reward, badge_id)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, l.ModuleID, l.Title, l.Content, l.ImageKey, l.OrderIndex, l.XPReward, nullInt64(l.BadgeID))
	if err != nil {
		log.Error("failed to insert lesson: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

// InsertQuestion stores a question and its answers atomically. A question
// without a correct answer is rejected.
func (r *contentRepository) InsertQuestion(ctx context.Context, q models.QuestionWithAnswers) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("content_repo")
	log.Debug("inserting question: lesson_id=%d, answers=%d", q.LessonID, len(q.Answers))

	if !q.HasCorrectAnswer() {
		return 0, errors.New("question has no correct answer")
	}

	var id int64
	err := db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO questions (lesson_id, prompt, order_index, xp_value)
VALUES (?, ?, ?, ?)
`, q.LessonID, q.Prompt, q.OrderIndex, q.XPValue)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO answers (question_id, text, is_correct, order_index)
VALUES (?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, a := range q.Answers {
			order := a.OrderIndex
			if order == 0 {
				order = i
			}
			if _, err := stmt.ExecContext(ctx, id, a.Text, a.IsCorrect, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert question: %v", err)
		return 0, err
	}
	return id, nil
}
