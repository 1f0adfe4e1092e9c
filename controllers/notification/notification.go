package notificationControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/momagdy121/ecommerce-api/store"
	"gorm.io/gorm"
)

// GET /user/notifications
func ListNotifications(notifier *store.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		userID, _ := userIDVal.(string)
		if !exists || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		notifications, err := notifier.ListByUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
			return
		}
		c.JSON(http.StatusOK, notifications)
	}
}

// PUT /user/notifications/:id/read
func MarkNotificationRead(notifier *store.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		userID, _ := userIDVal.(string)
		if !exists || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
			return
		}
		if err := notifier.MarkRead(uint(id), userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
	}
}
