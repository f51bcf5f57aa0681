package events

import (
	"context"
	"fmt"

	"reservas/pkg/client"
)

// WebhookSink forwards events to the realtime gateway over HTTP. One POST per
// event, no retries.
type WebhookSink struct {
	client *client.WebhookClient
}

func NewWebhookSink(webhookClient *client.WebhookClient) *WebhookSink {
	return &WebhookSink{client: webhookClient}
}

func (s *WebhookSink) Name() string {
	return "webhook"
}

func (s *WebhookSink) Deliver(ctx context.Context, event Event) error {
	if err := s.client.Post(ctx, "/events", event); err != nil {
		return fmt.Errorf("webhook delivery for %s: %w", event.Name, err)
	}
	return nil
}
