package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"routeros-panel-api/services"
)

// Wired by main before the router starts serving; handlers fall back to fresh
// instances so unit tests can hit them without the full pipeline.
var (
	notifier           *services.NotificationService
	generators         *services.GeneratorService
	generatorScheduler *services.Scheduler
)

// UseNotificationPipeline injects the shared pipeline instances.
func UseNotificationPipeline(n *services.NotificationService, g *services.GeneratorService, s *services.Scheduler) {
	notifier = n
	generators = g
	generatorScheduler = s
}

func getNotifier() *services.NotificationService {
	if notifier == nil {
		notifier = services.NewNotificationService(nil, nil)
	}
	return notifier
}

// GetNotifications lists notifications, newest first. ?unread=1 filters to
// unread rows, ?limit= caps the result.
func GetNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "1" || c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	list, err := getNotifier().List(unreadOnly, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": list,
		"total":         len(list),
	})
}

// GetUnreadCount returns the unread notification count.
func GetUnreadCount(c *gin.Context) {
	count, err := getNotifier().UnreadCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

type CreateNotificationRequest struct {
	Type        string `json:"type" binding:"required,oneof=client-chat info"`
	Message     string `json:"message" binding:"required"`
	LinkTo      string `json:"link_to"`
	ContextJSON string `json:"context_json"`
}

// CreateNotification stores a user-created notification (chat message or
// manual info). Generator types cannot be created by hand.
func CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := getNotifier().CreateUserNotification(req.Type, req.Message, req.LinkTo, req.ContextJSON)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notification": n})
}

// MarkNotificationRead flips is_read on one notification.
func MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if err := getNotifier().MarkRead(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead flips is_read on every unread notification.
func MarkAllNotificationsRead(c *gin.Context) {
	if err := getNotifier().MarkAllRead(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// ClearAllNotifications deletes every notification row.
func ClearAllNotifications(c *gin.Context) {
	if err := getNotifier().ClearAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications cleared"})
}

// GetGeneratorStatus exposes the last generator cycle summary so dropped
// notifications are visible to operators.
func GetGeneratorStatus(c *gin.Context) {
	if generators == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generator pipeline not running"})
		return
	}
	summary := generators.LastSummary()
	if summary == nil {
		c.JSON(http.StatusOK, gin.H{"status": "no cycle completed yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_cycle": summary})
}

// RunGenerators triggers a cycle outside the schedule. 409 when one is
// already in flight.
func RunGenerators(c *gin.Context) {
	if generatorScheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generator pipeline not running"})
		return
	}
	if !generatorScheduler.RunNow(c.Request.Context()) {
		c.JSON(http.StatusConflict, gin.H{"error": "A generator cycle is already running"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Generator cycle completed"})
}
