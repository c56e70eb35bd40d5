package services

import (
	"context"
	"log/slog"

	"eventhubconnect/internal/domain"
)

type activityLogger struct {
	repo   domain.ActivityRepository
	logger *slog.Logger
}

// NewActivityLogger returns an ActivityLogger backed by the activity repository.
// Insert failures are logged and swallowed so audit logging never fails the
// operation being audited.
func NewActivityLogger(repo domain.ActivityRepository, logger *slog.Logger) domain.ActivityLogger {
	return &activityLogger{repo: repo, logger: logger}
}

func (a *activityLogger) LogActivity(ctx context.Context, userID, action, description string) {
	if err := a.repo.Insert(ctx, userID, action, description); err != nil {
		a.logger.ErrorContext(ctx, "activity log insert failed",
			"user_id", userID, "action", action, "err", err)
	}
}
