package controllers

import (
	"net/http"
	"strconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/FGSParent/models"
)

// NotificationController serves the in-app notification feed that mirrors the
// push and email channels.
type NotificationController struct {
	db *goqu.Database
}

func NewNotificationController(db *goqu.Database) *NotificationController {
	return &NotificationController{db: db}
}

func (ctl *NotificationController) GetUserNotifications(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.UserProfile)
	isAdmin := c.MustGet("admin").(bool)

	userID, err := strconv.Atoi(c.Param("user_profile_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user profile ID", "details": err.Error()})
		return
	}

	if userID != currentUser.UserProfileID && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this user's notifications"})
		return
	}

	var notifications []models.Notification

	dbErr := ctl.db.From("notification").
		Select("notification_id",
			"user_profile_id",
			"notification_type",
			"notification_message",
			"notification_status",
			"datetime_create",
			"datetime_update",
			"target_claim_id",
			"target_child_id").
		Where(goqu.C("user_profile_id").Eq(userID)).
		Order(goqu.C("datetime_create").Desc()).
		ScanStructs(&notifications)

	if dbErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": dbErr.Error()})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (ctl *NotificationController) MarkAllNotificationsAsRead(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.UserProfile)
	isAdmin := c.MustGet("admin").(bool)

	userID, err := strconv.Atoi(c.Param("user_profile_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user profile ID", "details": err.Error()})
		return
	}

	if userID != currentUser.UserProfileID && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this user's notifications"})
		return
	}

	update := ctl.db.Update("notification").
		Set(goqu.Record{"notification_status": models.NotificationStatusRead}).
		Where(
			goqu.C("user_profile_id").Eq(userID),
			goqu.C("notification_status").Eq(models.NotificationStatusUnread),
		)

	result, err := update.Executor().Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read", "details": err.Error()})
		return
	}

	rowsAffected, _ := result.RowsAffected()

	c.JSON(http.StatusOK, gin.H{
		"message":      "All notifications marked as read",
		"updatedCount": rowsAffected,
	})
}
