package handlers

import (
	"net/http"

	"worklink-api/config"
	"worklink-api/middleware"
	"worklink-api/models"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first
func ListNotifications(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var notifications []models.Notification
	query := config.DB.Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}
	query.Order("created_at desc").Find(&notifications)

	c.JSON(http.StatusOK, gin.H{
		"count":         len(notifications),
		"notifications": notifications,
	})
}

// MarkNotificationRead flags one notification as read
func MarkNotificationRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var notification models.Notification
	if err := config.DB.First(&notification, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	if notification.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This notification does not belong to you"})
		return
	}

	config.DB.Model(&notification).Update("read", true)
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read", "id": notification.ID})
}
