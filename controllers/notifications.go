package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accana-api/config"
	"accana-api/services"
)

// GetNotifications returns the current user's notifications, newest first.
func GetNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewNotificationService(config.DB)
	notifications, err := svc.ListFor(user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// GetNotificationCounter returns unread counts for the notification bell
// and the internal-message inbox.
func GetNotificationCounter(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	notifSvc := services.NewNotificationService(config.DB)
	unreadNotifications, err := notifSvc.UnreadCount(user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	msgSvc := services.NewMessageService(config.DB)
	unreadMessages, err := msgSvc.UnreadInboxCount(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"unread_notifications": unreadNotifications,
		"unread_messages":      unreadMessages,
	})
}

// MarkAllNotificationsRead flips every unread notification for the user.
func MarkAllNotificationsRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewNotificationService(config.DB)
	if err := svc.MarkAllRead(user.Username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearReadNotifications deletes the user's already-read notifications.
func ClearReadNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewNotificationService(config.DB)
	if err := svc.ClearRead(user.Username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
