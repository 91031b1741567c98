package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/doug-martin/goqu/v9"

	"github.com/FGSParent/models"
)

// NotificationTriggerService fans claim events out to a family's parents:
// an in-app notification row per parent, a push notification per device,
// and an email fallback for parents with no registered device. Every
// failure here is logged and swallowed; a claim's validity never depends on
// notification delivery.
type NotificationTriggerService struct {
	db        *goqu.Database
	directory *FamilyDirectoryService
	push      *PushNotificationService
	email     *EmailService
}

func NewNotificationTriggerService(db *goqu.Database, directory *FamilyDirectoryService, push *PushNotificationService, email *EmailService) *NotificationTriggerService {
	return &NotificationTriggerService{
		db:        db,
		directory: directory,
		push:      push,
		email:     email,
	}
}

// NotifyParentsOfClaimSubmitted tells every parent in the family that a
// child submitted a prayer claim. Called from a goroutine after the claim
// transaction commits.
func (s *NotificationTriggerService) NotifyParentsOfClaimSubmitted(familyID int, claim models.PrayerClaim) {
	ctx := context.Background()

	parents, err := s.directory.GetFamilyParents(ctx, familyID)
	if err != nil {
		log.Printf("Failed to resolve parents for family %d: %v", familyID, err)
		return
	}
	if len(parents) == 0 {
		return
	}

	childName := "Your child"
	if child, err := s.directory.GetChild(ctx, claim.ChildID); err == nil {
		childName = child.ChildName
	}

	message := fmt.Sprintf("%s claimed %s for %s", childName, claim.PrayerName, claim.ClaimedDate)
	if claim.Backdated {
		message = fmt.Sprintf("%s claimed %s for %s (backdated)", childName, claim.PrayerName, claim.ClaimedDate)
	}

	for _, parent := range parents {
		notification := models.Notification{
			UserProfileID:       parent.UserProfileID,
			NotificationType:    models.NotificationTypeClaimSubmitted,
			NotificationMessage: message,
			NotificationStatus:  models.NotificationStatusUnread,
			TargetClaimID:       &claim.PrayerClaimID,
			TargetChildID:       &claim.ChildID,
		}

		insert := s.db.Insert("notification").Rows(notification)
		if _, err := insert.Executor().Exec(); err != nil {
			log.Printf("Failed to create PRAYER_CLAIM_SUBMITTED notification for user %d: %v", parent.UserProfileID, err)
		}
	}

	payload := NotificationPayload{
		Title: "Prayer Claim",
		Body:  message,
		Data: map[string]string{
			"type":          "prayer_claim_submitted",
			"prayerClaimId": claim.PrayerClaimID,
			"childId":       strconv.Itoa(claim.ChildID),
		},
	}

	for _, parent := range parents {
		if s.push != nil {
			err := s.push.SendNotificationToUser(parent.UserProfileID, payload)
			if err == nil {
				continue
			}
			log.Printf("Failed to send PRAYER_CLAIM_SUBMITTED push to user %d: %v", parent.UserProfileID, err)
		}

		// No push delivery for this parent; fall back to email.
		if s.email != nil && parent.Email != "" {
			if err := s.email.SendClaimSubmittedEmail(parent.Email, parent.FirstName, childName, claim); err != nil {
				log.Printf("Failed to send PRAYER_CLAIM_SUBMITTED email to user %d: %v", parent.UserProfileID, err)
			}
		}
	}
}
