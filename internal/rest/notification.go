package rest

import (
	"agriVest/domain"
	"agriVest/internal/middleware"
	"agriVest/pkg/logger"
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID uint) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type NotificationHandler struct {
	notificationService NotificationService
	timeout             time.Duration
}

func NewNotificationHandler(notificationService NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		timeout:             10 * time.Second,
	}
}

func (h *NotificationHandler) ListMine(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	notifications, err := h.notificationService.ListForUser(ctx, caller.ID)
	if err != nil {
		logger.Error("Failed to get notifications", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "Notifications retrieved successfully",
		"notifications": notifications,
	})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid notification id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.notificationService.MarkRead(ctx, id, caller.ID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Notification marked as read",
	})
}
