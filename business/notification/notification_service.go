package notification

import (
	"agriVest/domain"
	"agriVest/pkg/logger"
	"context"
	"fmt"
)

// NotificationRepository contract interface
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	FindByUser(ctx context.Context, userID uint) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type notificationService struct {
	notifRepo NotificationRepository
}

func NewNotificationService(notifRepo NotificationRepository) *notificationService {
	return &notificationService{
		notifRepo: notifRepo,
	}
}

// Notify records an in-app notification for userID.
func (s *notificationService) Notify(ctx context.Context, userID uint, title, message string) error {
	n := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}

	if err := s.notifRepo.Create(ctx, n); err != nil {
		logger.Error("Failed to create notification", "user_id", userID, "error", err)
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	notifications, err := s.notifRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list notifications", err)
		return nil, err
	}

	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) error {
	return s.notifRepo.MarkRead(ctx, id, userID)
}
