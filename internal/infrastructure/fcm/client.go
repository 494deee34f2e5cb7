package fcm

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging for topic broadcasts. Without
// credentials it degrades to a disabled no-op client so the scanner still
// runs in environments that never configure push alerts.
type Client struct {
	client *messaging.Client
	log    zerolog.Logger
}

// NewClient initializes FCM from FIREBASE_CREDENTIALS_PATH, falling back to
// an inline FIREBASE_CREDENTIALS_JSON blob.
func NewClient(ctx context.Context, log zerolog.Logger) (*Client, error) {
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
		if credJSON == "" {
			log.Warn().Msg("no Firebase credentials found, push alerts disabled")
			return &Client{log: log}, nil
		}

		tmpFile, err := os.CreateTemp("", "firebase-credentials-*.json")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		defer tmpFile.Close()

		if _, err := tmpFile.Write([]byte(credJSON)); err != nil {
			return nil, fmt.Errorf("failed to write credentials: %w", err)
		}
		credPath = tmpFile.Name()
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	log.Info().Msg("Firebase Cloud Messaging initialized")
	return &Client{client: client, log: log}, nil
}

// SendToTopic broadcasts one notification to every device subscribed to the
// topic. Disabled clients drop the message silently.
func (c *Client) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	if c.client == nil {
		return nil
	}

	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "squeeze_alerts",
				Priority:  messaging.PriorityHigh,
			},
		},
	}

	response, err := c.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}

	c.log.Debug().Str("topic", topic).Str("response", response).Msg("push sent")
	return nil
}

// IsEnabled reports whether the client holds real credentials.
func (c *Client) IsEnabled() bool {
	return c.client != nil
}
