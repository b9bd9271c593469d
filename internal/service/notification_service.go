package service

import (
	"context"

	"github.com/noah-isme/lms-api/internal/models"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

type notificationReader interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}

// NotificationService exposes a user's notifications.
type NotificationService struct {
	repo notificationReader
}

// NewNotificationService constructs the service.
func NewNotificationService(repo notificationReader) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListForUser returns the newest notifications for userID.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	notifications, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, internalError(err, "failed to list notifications")
	}
	return notifications, nil
}
