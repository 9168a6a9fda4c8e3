package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
)

const userColumns = `id, display_name, xp, level, hearts, max_hearts, streak_count, streak_last_updated, role, created_at`

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u    models.User
		last sql.NullTime
		role string
	)
	if err := row.Scan(&u.ID, &u.DisplayName, &u.XP, &u.Level, &u.Hearts, &u.MaxHearts, &u.StreakCount, &last, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.StreakLastUpdated = timePtr(last)
	u.Role = models.Role(role)
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%s", id)

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found: id=%s", id)
			return nil, nil
		}
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return u, nil
}

// Ensure inserts u if no user with its id exists and returns the stored row.
func (r *userRepository) Ensure(ctx context.Context, u models.User) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("ensuring user: id=%s", u.ID)

	role := u.Role
	if !role.Valid() {
		role = models.RoleUser
	}
	if u.MaxHearts <= 0 {
		u.MaxHearts = 5
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, display_name, hearts, max_hearts, role)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`, u.ID, u.DisplayName, u.MaxHearts, u.MaxHearts, string(role))
	if err != nil {
		log.Error("failed to ensure user: %v", err)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info("user created: id=%s", u.ID)
	}
	return r.Get(ctx, u.ID)
}

func (r *userRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update models.StatusUpdate) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	if update.Empty() {
		return nil
	}

	set := map[string]any{}
	if update.Hearts != nil {
		set["hearts"] = *update.Hearts
	}
	if update.StreakCount != nil {
		set["streak_count"] = *update.StreakCount
	}
	if update.StreakLastUpdated != nil {
		set["streak_last_updated"] = update.StreakLastUpdated.UTC()
	}
	log.Debug("updating status: id=%s, fields=%d", id, len(set))

	query, args, err := sqlBuilder.Update("users").SetMap(set).Where(squirrel.Eq{"id": id.String()}).ToSql()
	if err != nil {
		log.Error("failed to build status update: %v", err)
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to update status: %v", err)
		return err
	}
	return nil
}

// DecrementHearts takes one heart, never going below zero, and returns the
// remaining count.
func (r *userRepository) DecrementHearts(ctx context.Context, id uuid.UUID) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("decrementing hearts: id=%s", id)

	var hearts int
	err := r.db.QueryRowContext(ctx, `
UPDATE users SET hearts = MAX(hearts - 1, 0)
WHERE id = ?
RETURNING hearts
`, id).Scan(&hearts)
	if err != nil {
		log.Error("failed to decrement hearts: %v", err)
		return 0, err
	}
	log.Debug("hearts now %d: id=%s", hearts, id)
	return hearts, nil
}

func (r *userRepository) AddXP(ctx context.Context, id uuid.UUID, amount int) (int, int, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("adding xp: id=%s, amount=%d", id, amount)

	var xp, level int
	err := r.db.QueryRowContext(ctx, `
UPDATE users SET xp = MAX(xp + ?, 0)
WHERE id = ?
RETURNING xp, level
`, amount, id).Scan(&xp, &level)
	if err != nil {
		log.Error("failed to add xp: %v", err)
		return 0, 0, err
	}
	return xp, level, nil
}

// RaiseLevel sets the level to level unless the stored one is already
// higher, and returns the resulting level.
func (r *userRepository) RaiseLevel(ctx context.Context, id uuid.UUID, level int) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("raising level: id=%s, level=%d", id, level)

	var stored int
	err := r.db.QueryRowContext(ctx, `
UPDATE users SET level = MAX(level, ?)
WHERE id = ?
RETURNING level
`, level, id).Scan(&stored)
	if err != nil {
		log.Error("failed to raise level: %v", err)
		return 0, err
	}
	return stored, nil
}

func (r *userRepository) TopByXP(ctx context.Context, limit int) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing top users: limit=%d", limit)

	query, args, err := sqlBuilder.Select(userColumns).From("users").
		OrderBy("xp DESC", "created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list top users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, *u)
	}
	log.Debug("found %d users", len(users))
	return users, rows.Err()
}
