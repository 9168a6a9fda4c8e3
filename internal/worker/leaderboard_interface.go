package worker

import (
	"context"

	"github.com/google/uuid"
)

// LeaderboardUpdater is the slice of leaderboard.Board the sync job needs.
type LeaderboardUpdater interface {
	Update(ctx context.Context, userID uuid.UUID, xp int) error
}
