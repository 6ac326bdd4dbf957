package controllers

import (
	"net/http"

	"city-report-api/services"

	"github.com/gin-gonic/gin"
)

// GetMyNotifications returns the caller's notifications, newest first.
func GetMyNotifications(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	notifications, err := notificationSvc.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "total": len(notifications)})
}

// MarkNotificationRead flips one notification to read.
func MarkNotificationRead(c *gin.Context) {
	notification, err := notificationSvc.MarkRead(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification": notification})
}

// MarkAllNotificationsRead flips every unread notification of the caller.
func MarkAllNotificationsRead(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	count, err := notificationSvc.MarkAllRead(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// CreateNotification lets an admin send a notification directly. The target
// user not existing is a silent no-op by design, reported as accepted.
func CreateNotification(c *gin.Context) {
	var input services.CreateNotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := notificationSvc.Create(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}
	if notification == nil {
		c.JSON(http.StatusAccepted, gin.H{"notification": nil})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notification": notification})
}
