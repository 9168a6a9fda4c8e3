package worker

import (
	"context"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/logger"
)

// LeaderboardSyncJob pushes a user's new XP total to the leaderboard after a
// quiz completion, off the request path.
type LeaderboardSyncJob struct {
	Board  LeaderboardUpdater
	UserID uuid.UUID
	XP     int
}

func (j *LeaderboardSyncJob) Name() string { return "leaderboard_sync" }

func (j *LeaderboardSyncJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("user_id", j.UserID.String())
	if err := j.Board.Update(ctx, j.UserID, j.XP); err != nil {
		log.Warn("leaderboard update failed: %v", err)
		return err
	}
	log.Debug("leaderboard updated: xp=%d", j.XP)
	return nil
}
