package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
)

const badgeColumns = `id, name, description, image_key, requirement_type, requirement_value`

type badgeRepository struct {
	db *sql.DB
}

// NewBadgeRepository creates a new BadgeRepository implementation
func NewBadgeRepository(db *sql.DB) repository.BadgeRepository {
	return &badgeRepository{db: db}
}

func scanBadge(row scanner) (*models.Badge, error) {
	var (
		b   models.Badge
		req string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.ImageKey, &req, &b.RequirementValue); err != nil {
		return nil, err
	}
	b.RequirementType = models.RequirementType(req)
	return &b, nil
}

func (r *badgeRepository) Get(ctx context.Context, id int64) (*models.Badge, error) {
	log := logger.FromContext(ctx).WithPrefix("badge_repo")
	log.Debug("getting badge: id=%d", id)

	b, err := scanBadge(r.db.QueryRowContext(ctx, `SELECT `+badgeColumns+` FROM badges WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("badge not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get badge: %v", err)
		return nil, err
	}
	return b, nil
}

func (r *badgeRepository) Insert(ctx context.Context, b models.Badge) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("badge_repo")
	log.Debug("inserting badge: name=%s", b.Name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO badges (name, description, image_key, requirement_type, requirement_value)
VALUES (?, ?, ?, ?, ?)
`, b.Name, b.Description, b.ImageKey, string(b.RequirementType), b.RequirementValue)
	if err != nil {
		log.Error("failed to insert badge: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *badgeRepository) ListWithRequirement(ctx context.Context) ([]models.Badge, error) {
	log := logger.FromContext(ctx).WithPrefix("badge_repo")
	log.Debug("listing requirement badges")

	rows, err := r.db.QueryContext(ctx, `SELECT `+badgeColumns+` FROM badges WHERE requirement_type != '' ORDER BY id`)
	if err != nil {
		log.Error("failed to list requirement badges: %v", err)
		return nil, err
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			log.Error("failed to scan badge row: %v", err)
			return nil, err
		}
		badges = append(badges, *b)
	}
	return badges, rows.Err()
}

// Award grants the badge once. It reports true only when this call created
// the award.
func (r *badgeRepository) Award(ctx context.Context, userID uuid.UUID, badgeID int64, at time.Time) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("badge_repo")
	log.Debug("awarding badge: user_id=%s, badge_id=%d", userID, badgeID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO user_badges (user_id, badge_id, earned_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id, badge_id) DO NOTHING
`, userID, badgeID, at.UTC())
	if err != nil {
		log.Error("failed to award badge: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.Info("badge earned: user_id=%s, badge_id=%d", userID, badgeID)
	}
	return n > 0, nil
}

func (r *badgeRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.EarnedBadge, error) {
	log := logger.FromContext(ctx).WithPrefix("badge_repo")
	log.Debug("listing badges for user: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT b.id, b.name, b.description, b.image_key, b.requirement_type, b.requirement_value, ub.earned_at
FROM user_badges ub
JOIN badges b ON b.id = ub.badge_id
WHERE ub.user_id = ?
ORDER BY ub.earned_at, b.id
`, userID)
	if err != nil {
		log.Error("failed to list user badges: %v", err)
		return nil, err
	}
	defer rows.Close()

	var badges []models.EarnedBadge
	for rows.Next() {
		var (
			eb  models.EarnedBadge
			req string
		)
		if err := rows.Scan(&eb.ID, &eb.Name, &eb.Description, &eb.ImageKey, &req, &eb.RequirementValue, &eb.EarnedAt); err != nil {
			log.Error("failed to scan user badge row: %v", err)
			return nil, err
		}
		eb.RequirementType = models.RequirementType(req)
		badges = append(badges, eb)
	}
	return badges, rows.Err()
}
