package handlers

import (
	"errors"
	"net/http"

	subscriptionRepo "moviemate/database/repository/subscription"
	"moviemate/models"
	"moviemate/services/notification"
	"moviemate/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler exposes the push-notification REST surface.
type NotificationHandler struct {
	Subs       subscriptionRepo.Repository
	Dispatcher notification.Dispatcher
	Users      user.UserService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(subs subscriptionRepo.Repository, dispatcher notification.Dispatcher, users user.UserService) *NotificationHandler {
	return &NotificationHandler{Subs: subs, Dispatcher: dispatcher, Users: users}
}

type subscribeRequest struct {
	Subscription struct {
		Endpoint string                  `json:"endpoint"`
		Keys     models.SubscriptionKeys `json:"keys"`
	} `json:"subscription"`
}

// SubscribeHandler registers (or overwrites) a push subscription for the
// caller and enables their push preference.
func (h *NotificationHandler) SubscribeHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Subscription.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid subscription data"})
		return
	}

	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: req.Subscription.Endpoint,
		Keys:     req.Subscription.Keys,
	}
	if err := h.Subs.Upsert(c.Request.Context(), sub); err != nil {
		logger.Error("Failed to store push subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to subscribe to push notifications"})
		return
	}

	if err := h.Users.SetPushPreference(userID, true); err != nil {
		logger.Warn("Failed to enable push preference", zap.String("userID", userID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully subscribed to push notifications"})
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

// UnsubscribeHandler removes the matching subscription. Unsubscribing an
// endpoint that is not registered still succeeds.
func (h *NotificationHandler) UnsubscribeHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Endpoint is required"})
		return
	}

	if err := h.Subs.Remove(c.Request.Context(), userID, req.Endpoint); err != nil {
		logger.Error("Failed to remove push subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to unsubscribe from push notifications"})
		return
	}

	if err := h.Users.SetPushPreference(userID, false); err != nil {
		logger.Warn("Failed to disable push preference", zap.String("userID", userID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully unsubscribed from push notifications"})
}

// TestNotificationHandler dispatches a synthetic payload to the caller's own
// subscriptions.
func (h *NotificationHandler) TestNotificationHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	err := h.Dispatcher.Dispatch(c.Request.Context(), userID, notification.TestPayload())
	if errors.Is(err, notification.ErrNotSubscribed) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User not subscribed to push notifications"})
		return
	}
	if err != nil {
		logger.Error("Failed to send test notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send test notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Test notification sent successfully"})
}

type movieNotificationRequest struct {
	MovieData models.MovieData `json:"movieData"`
}

// BookmarkNotificationHandler dispatches a bookmark-added payload. Delivery is
// fire-and-forget from the caller's perspective; a failed push never fails the
// request.
func (h *NotificationHandler) BookmarkNotificationHandler(c *gin.Context) {
	h.dispatchMovieNotification(c, notification.BookmarkPayload)
}

// WatchedNotificationHandler dispatches a movie-watched payload, rating
// included when present.
func (h *NotificationHandler) WatchedNotificationHandler(c *gin.Context) {
	h.dispatchMovieNotification(c, notification.WatchedPayload)
}

func (h *NotificationHandler) dispatchMovieNotification(c *gin.Context, build func(models.MovieData) models.PushPayload) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req movieNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MovieData.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid movie data"})
		return
	}

	err := h.Dispatcher.Dispatch(c.Request.Context(), userID, build(req.MovieData))
	if err != nil && !errors.Is(err, notification.ErrNotSubscribed) {
		logger.Warn("Failed to dispatch movie notification",
			zap.String("userID", userID),
			zap.Int("movieID", req.MovieData.ID),
			zap.Error(err))
	}

	success := err == nil
	message := "Notification sent"
	if !success {
		message = "Failed to send notification"
	}
	c.JSON(http.StatusOK, gin.H{"success": success, "message": message})
}

type bulkNotificationRequest struct {
	UserIDs      []string           `json:"userIds"`
	Notification models.PushPayload `json:"notification"`
}

// BulkNotificationHandler dispatches one payload to many users, reporting
// per-user success counts.
func (h *NotificationHandler) BulkNotificationHandler(c *gin.Context) {
	logger := getLogger(c)

	var req bulkNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.UserIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	successful := 0
	for _, userID := range req.UserIDs {
		if err := h.Dispatcher.Dispatch(c.Request.Context(), userID, req.Notification); err != nil {
			if !errors.Is(err, notification.ErrNotSubscribed) {
				logger.Warn("Bulk dispatch failed for user", zap.String("userID", userID), zap.Error(err))
			}
			continue
		}
		successful++
	}
	failed := len(req.UserIDs) - successful

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notifications sent",
		"data": gin.H{
			"total":      len(req.UserIDs),
			"successful": successful,
			"failed":     failed,
		},
	})
}

type dismissedRequest struct {
	Type    string `json:"type"`
	MovieID int    `json:"movieId"`
}

// DismissedHandler is the analytics sink for notification dismissals reported
// by the delivery worker.
func (h *NotificationHandler) DismissedHandler(c *gin.Context) {
	logger := getLogger(c)

	var req dismissedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	logger.Info("Notification dismissed",
		zap.String("type", req.Type),
		zap.Int("movieID", req.MovieID))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
