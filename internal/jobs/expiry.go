package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/services"
)

// StartInvitationExpiry schedules the pending-invitation sweep. Returns the
// cron so the caller can Stop it on shutdown.
func StartInvitationExpiry(invitations services.InvitationService, schedule string, log *logger.Logger) (*cron.Cron, error) {
	jobLog := log.With("job", "InvitationExpiry")
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		count, err := invitations.AutoExpireCampInvitations(ctx)
		if err != nil {
			jobLog.Warn("invitation expiry sweep failed", "error", err)
			return
		}
		jobLog.Debug("invitation expiry sweep finished", "expired", count)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	jobLog.Info("invitation expiry sweep scheduled", "schedule", schedule)
	return c, nil
}
