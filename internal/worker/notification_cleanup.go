package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// NotificationPurger deletes read notifications older than the retention
// window and reports how many rows went away.
type NotificationPurger interface {
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

type NotificationCleanupWorker struct {
	notifications NotificationPurger
	retentionDays int
}

func NewNotificationCleanupWorker(notifications NotificationPurger, retentionDays int) *NotificationCleanupWorker {
	return &NotificationCleanupWorker{
		notifications: notifications,
		retentionDays: retentionDays,
	}
}

func (w *NotificationCleanupWorker) Name() string {
	return "notification_cleanup"
}

func (w *NotificationCleanupWorker) Run(ctx context.Context) error {
	if w.retentionDays <= 0 {
		return nil
	}
	retention := time.Duration(w.retentionDays) * 24 * time.Hour

	rows, err := w.notifications.Cleanup(ctx, retention)
	if err != nil {
		return fmt.Errorf("failed to cleanup notifications: %w", err)
	}

	log.Debug().Int64("deleted", rows).Int("retention_days", w.retentionDays).Msg("notification cleanup finished")
	return nil
}
