package notification

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

// Service stores in-app notifications and fans them out on the broker.
type Service struct {
	repo      repository.NotificationRepository
	users     repository.UserRepository
	publisher messaging.Publisher
	channel   string
	metrics   *metrics.Metrics
}

func NewService(repo repository.NotificationRepository, users repository.UserRepository, publisher messaging.Publisher, channel string, m *metrics.Metrics) *Service {
	if publisher == nil {
		publisher = messaging.NopBroker{}
	}
	return &Service{
		repo:      repo,
		users:     users,
		publisher: publisher,
		channel:   channel,
		metrics:   m,
	}
}

// Truncate cuts s to at most max characters.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// Notify persists a notification for userID. Publishing the delivery event
// is best effort and never fails the call.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, message, notificationType string, relatedID *uuid.UUID) (*model.Notification, error) {
	if notificationType == "" {
		notificationType = model.NotificationTypeInfo
	}

	n := &model.Notification{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            Truncate(title, model.NotificationTitleMax),
		Message:          Truncate(message, model.NotificationMessageMax),
		NotificationType: notificationType,
		RelatedID:        relatedID,
		CreatedAt:        time.Now().UTC(),
	}

	err := s.repo.Create(ctx, n)
	s.metrics.NotificationCreated(notificationType, err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, n)
	return n, nil
}

func (s *Service) publish(ctx context.Context, n *model.Notification) {
	event := model.NotificationEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           n.NotificationType,
		CreatedAt:      n.CreatedAt,
	}
	if user, err := s.users.Get(ctx, n.UserID); err == nil {
		event.Email = user.Email
	}

	err := s.publisher.Publish(ctx, s.channel, event)
	s.metrics.Published(s.channel, err)
	if err != nil {
		log.Warn().Err(err).
			Str("notification_id", n.ID.String()).
			Str("channel", s.channel).
			Msg("failed to publish notification event")
	}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) (*model.NotificationList, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	return &model.NotificationList{Notifications: items, UnreadCount: unread}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}

// MarkRead marks one of the user's notifications as read. Notifications
// owned by someone else look exactly like missing ones.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("notification", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}

// Cleanup removes read notifications older than the retention window.
func (s *Service) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	n, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("removed old notifications")
	}
	return n, nil
}
