package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/repositories"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// NotificationService stores per-user topic preferences and the browser push
// subscription. Delivery happens elsewhere.
type NotificationService interface {
	GetPreferences(ctx context.Context, userID string) (models.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error
	Subscribe(ctx context.Context, userID string, sub *models.PushSubscription) error
	Unsubscribe(ctx context.Context, userID string) error
}

type notificationService struct {
	users repositories.UserRepository
}

func NewNotificationService(users repositories.UserRepository) NotificationService {
	return &notificationService{users: users}
}

func (s *notificationService) GetPreferences(ctx context.Context, userID string) (models.NotificationPreferences, error) {
	id, err := parseID(userID, "User not found")
	if err != nil {
		return models.NotificationPreferences{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.NotificationPreferences{}, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to load preferences", err)
	}
	if u == nil {
		return models.NotificationPreferences{}, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found", utils.ErrNotFound)
	}
	return u.NotificationPreferences, nil
}

func (s *notificationService) UpdatePreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	id, err := parseID(userID, "User not found")
	if err != nil {
		return err
	}
	if err := s.users.SetNotificationPreferences(ctx, id, prefs); err != nil {
		return notFoundOrInternal(err, "User not found", "Failed to update preferences")
	}
	return nil
}

func (s *notificationService) Subscribe(ctx context.Context, userID string, sub *models.PushSubscription) error {
	if sub == nil || strings.TrimSpace(sub.Endpoint) == "" || sub.Keys.P256dh == "" || sub.Keys.Auth == "" {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid subscription object", nil)
	}
	id, err := parseID(userID, "User not found")
	if err != nil {
		return err
	}
	if err := s.users.SetPushSubscription(ctx, id, sub); err != nil {
		return notFoundOrInternal(err, "User not found", "Failed to save subscription")
	}
	return nil
}

func (s *notificationService) Unsubscribe(ctx context.Context, userID string) error {
	id, err := parseID(userID, "User not found")
	if err != nil {
		return err
	}
	err = s.users.SetPushSubscription(ctx, id, nil)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to remove subscription", err)
	}
	return nil
}
