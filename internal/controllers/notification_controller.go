package controllers

import (
	"net/http"

	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/middleware"
	"github.com/iamavinashmourya/FarmCare/internal/services"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

type NotificationController struct {
	notifications services.NotificationService
}

func NewNotificationController(notifications services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

func (c *NotificationController) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	prefs, err := c.notifications.GetPreferences(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PreferencesResponse{Preferences: prefs})
}

func (c *NotificationController) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdatePreferencesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := c.notifications.UpdatePreferences(r.Context(), middleware.UserIDFromContext(r.Context()), *req.Preferences); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Notification preferences updated successfully"})
}

func (c *NotificationController) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SubscribeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := c.notifications.Subscribe(r.Context(), middleware.UserIDFromContext(r.Context()), req.Subscription); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Successfully subscribed to notifications"})
}

func (c *NotificationController) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.notifications.Unsubscribe(r.Context(), middleware.UserIDFromContext(r.Context())); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Successfully unsubscribed from notifications"})
}
