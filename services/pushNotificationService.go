package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/FGSParent/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// PushNotificationService delivers push notifications to parent devices via
// FCM, with an Expo Push API fallback for Expo Go test tokens. Device
// tokens are looked up per parent in user_push_tokens.
type PushNotificationService struct {
	db        *goqu.Database
	fcmClient *messaging.Client
}

type NotificationPayload struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

// NewPushNotificationService initializes the FCM client. A failed Firebase
// init is logged and leaves the service degraded (sends will error per
// token), matching the best-effort contract of notification delivery.
func NewPushNotificationService(db *goqu.Database) *PushNotificationService {
	service := &PushNotificationService{db: db}

	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")

	var app *firebase.App
	var err error

	if serviceAccountPath != "" {
		opt := option.WithCredentialsFile(serviceAccountPath)
		app, err = firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			log.Printf("Failed to initialize Firebase app with service account: %v", err)
			return service
		}
		log.Println("Firebase initialized with service account file")
	} else {
		app, err = firebase.NewApp(context.Background(), nil)
		if err != nil {
			log.Printf("Failed to initialize Firebase app with ADC: %v", err)
			return service
		}
		log.Println("Firebase initialized with Application Default Credentials")
	}

	service.fcmClient, err = app.Messaging(context.Background())
	if err != nil {
		log.Printf("Failed to get Firebase messaging client: %v", err)
		return service
	}

	log.Println("Push notification service initialized successfully with FCM")
	return service
}

// SendNotificationToUser sends the payload to every device token registered
// for the user. Returns an error if the user has no tokens or if every
// delivery failed.
func (s *PushNotificationService) SendNotificationToUser(userID int, payload NotificationPayload) error {
	var tokens []models.PushToken
	err := s.db.From("user_push_tokens").
		Where(goqu.C("user_profile_id").Eq(userID)).
		ScanStructs(&tokens)
	if err != nil {
		return fmt.Errorf("failed to get push tokens for user %d: %v", userID, err)
	}

	if len(tokens) == 0 {
		return fmt.Errorf("no push tokens found for user %d", userID)
	}

	delivered := 0
	for _, token := range tokens {
		if err := s.sendToToken(token, payload); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token.PushToken, err)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return fmt.Errorf("all %d push deliveries failed for user %d", len(tokens), userID)
	}
	return nil
}

func (s *PushNotificationService) SendNotificationToUsers(userIDs []int, payload NotificationPayload) error {
	var failures int

	for _, userID := range userIDs {
		if err := s.SendNotificationToUser(userID, payload); err != nil {
			failures++
			log.Printf("Failed to send notification to user %d: %v", userID, err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("failed to send notifications to %d users", failures)
	}
	return nil
}

func (s *PushNotificationService) sendToToken(pushToken models.PushToken, payload NotificationPayload) error {
	// Expo Go test tokens go through the Expo Push API instead of FCM
	if strings.HasPrefix(pushToken.PushToken, "ExponentPushToken[") {
		return s.sendExpoNotification(pushToken, payload)
	}

	if s.fcmClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := &messaging.Message{
		Token: pushToken.PushToken,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
	}

	if pushToken.Platform == "ios" {
		message.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: payload.Title,
						Body:  payload.Body,
					},
					Sound: payload.Sound,
				},
			},
		}
		if payload.Priority == "high" {
			message.APNS.Headers = map[string]string{
				"apns-priority": "10",
			}
		}
	} else if pushToken.Platform == "android" {
		message.Android = &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Title: payload.Title,
				Body:  payload.Body,
				Sound: payload.Sound,
			},
		}
		if payload.Priority == "high" {
			message.Android.Priority = "high"
		} else {
			message.Android.Priority = "normal"
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := s.fcmClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %v", err)
	}

	log.Printf("Successfully sent FCM notification. Message ID: %s", response)
	return nil
}

// sendExpoNotification sends notification via Expo Push API (for Expo Go testing)
func (s *PushNotificationService) sendExpoNotification(pushToken models.PushToken, payload NotificationPayload) error {
	expoMessage := map[string]interface{}{
		"to":    pushToken.PushToken,
		"title": payload.Title,
		"body":  payload.Body,
		"data":  payload.Data,
	}

	if payload.Sound != "" {
		expoMessage["sound"] = payload.Sound
	}

	if payload.Priority == "high" {
		expoMessage["priority"] = "high"
	}

	jsonBody, err := json.Marshal(expoMessage)
	if err != nil {
		return fmt.Errorf("failed to marshal Expo message: %v", err)
	}

	resp, err := http.Post("https://exp.host/--/api/v2/push/send", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to send Expo notification: %v", err)
	}
	defer resp.Body.Close()

	responseBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Expo push API returned status %d: %s", resp.StatusCode, string(responseBody))
	}

	log.Printf("Successfully sent Expo notification to %s", pushToken.PushToken)
	return nil
}
