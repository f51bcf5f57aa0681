package service

import (
	"context"
	"errors"
	"sync"

	"reservas/internal/events"
	"reservas/internal/notifications/repository"
	"reservas/pkg/config"
	apperrors "reservas/pkg/errors"
	"reservas/pkg/logger"
	"reservas/pkg/model"
	"reservas/pkg/sanitizer"
)

type NotificationService interface {
	// Notify stores a notification and emits the wire event. Best effort:
	// failures are logged, never propagated, so reservation flows cannot be
	// broken by the notification path.
	Notify(ctx context.Context, notification *model.Notification)
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int, offset int64) ([]*model.Notification, int64, error)
	MarkRead(ctx context.Context, actor model.Actor, id string) error
}

type notificationService struct {
	repo       repository.NotificationRepository
	dispatcher *events.Dispatcher
	logger     *logger.Logger
}

func NewNotificationService(cfg *config.Config, repo repository.NotificationRepository, dispatcher *events.Dispatcher) NotificationService {
	return &notificationService{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     cfg.Log,
	}
}

func (s *notificationService) Notify(ctx context.Context, notification *model.Notification) {
	notification.Title = sanitizer.SanitizeTitle(notification.Title)
	notification.Message = sanitizer.SanitizeText(notification.Message)

	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("Failed to store notification",
			"user_id", notification.UserID,
			"error", err,
		)
		return
	}

	s.dispatcher.Emit(events.Event{
		Name:    events.Notification,
		Payload: events.NotificationPayload(notification),
	})
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int, offset int64) ([]*model.Notification, int64, error) {
	var count int64
	var notifications []*model.Notification
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID, unreadOnly)
		if errCount != nil {
			s.logger.Error("Failed to count notifications", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count notifications", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		notifications, errFind = s.repo.FindByUser(ctx, userID, unreadOnly, limit, offset)
		if errFind != nil {
			s.logger.Error("Failed to list notifications", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve notifications", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return notifications, count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor model.Actor, id string) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundWithID("Notification", id)
		}
		if errors.Is(err, repository.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid notification ID format")
		}
		return apperrors.Internal("Failed to retrieve notification", err)
	}

	if !actor.CanManage(notification.UserID) {
		return apperrors.Forbidden("Only the notification owner may mark it read")
	}

	if err := s.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundWithID("Notification", id)
		}
		return apperrors.Internal("Failed to mark notification read", err)
	}

	return nil
}
