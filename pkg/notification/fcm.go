package notification

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// DeviceSource looks up the push tokens registered for a user
type DeviceSource interface {
	GetUserDevices(userID uuid.UUID) ([]model.UserDevice, error)
}

// NotificationService delivers FCM pushes for messages the recipient
// missed while offline. A nil service is valid and does nothing.
type NotificationService struct {
	client  *messaging.Client
	devices DeviceSource
}

// NewNotificationService creates a new FCM notification service.
// Returns nil (pushes disabled) when credentials are absent or invalid.
func NewNotificationService(credentialsFile string, devices DeviceSource) (*NotificationService, error) {
	if credentialsFile == "" {
		log.Println("⚠️ Firebase credentials not provided, push notifications disabled")
		return nil, nil
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("⚠️ Failed to initialize Firebase app: %v (push notifications disabled)", err)
		return nil, nil
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("⚠️ Failed to get messaging client: %v", err)
		return nil, nil
	}

	log.Println("✅ Firebase FCM initialized")
	return &NotificationService{client: client, devices: devices}, nil
}

// SendMessageNotification pushes a new-message notification to every
// device the recipient has registered.
func (s *NotificationService) SendMessageNotification(ctx context.Context, receiverID uuid.UUID, senderName, body, scope string) error {
	if s == nil || s.client == nil {
		return nil
	}

	devices, err := s.devices.GetUserDevices(receiverID)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.FCMToken)
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: senderName,
			Body:  body,
		},
		Data: map[string]string{
			"type":        "new_message",
			"scope":       scope,
			"sender_name": senderName,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	br, err := s.client.SendMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	if br.FailureCount > 0 {
		for idx, resp := range br.Responses {
			if !resp.Success {
				log.Printf("⚠️ FCM failure for token %s: %v", tokens[idx], resp.Error)
			}
		}
	}

	return nil
}
