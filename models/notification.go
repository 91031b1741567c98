package models

import "time"

// Notification type constants
const (
	NotificationTypeClaimSubmitted = "PRAYER_CLAIM_SUBMITTED"
	NotificationTypeClaimApproved  = "PRAYER_CLAIM_APPROVED"
	NotificationTypeClaimDenied    = "PRAYER_CLAIM_DENIED"
)

// Notification status constants
const (
	NotificationStatusRead   = "READ"
	NotificationStatusUnread = "UNREAD"
)

type Notification struct {
	NotificationID      int       `json:"notificationId" db:"notification_id" goqu:"skipinsert"`
	UserProfileID       int       `json:"userProfileId" db:"user_profile_id"`
	NotificationType    string    `json:"notificationType" db:"notification_type"`
	NotificationMessage string    `json:"notificationMessage" db:"notification_message"`
	NotificationStatus  string    `json:"notificationStatus" db:"notification_status"`
	TargetClaimID       *string   `json:"targetClaimId" db:"target_claim_id"`
	TargetChildID       *int      `json:"targetChildId" db:"target_child_id"`
	DatetimeCreate      time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	DatetimeUpdate      time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}
