package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/sling"
	"go.uber.org/zap"

	"github.com/tlaurent/agendawatch/internal/event"
)

const webhookTimeout = 15 * time.Second

// WebhookNotifier posts the matched event as JSON to a configured endpoint.
type WebhookNotifier struct {
	base   *sling.Sling
	client *http.Client
	log    *zap.Logger
}

// NewWebhookNotifier creates a webhook notifier targeting url.
func NewWebhookNotifier(url string, log *zap.Logger) (*WebhookNotifier, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}
	client := &http.Client{Timeout: webhookTimeout}
	return &WebhookNotifier{
		base:   sling.New().Client(client).Post(url),
		client: client,
		log:    log,
	}, nil
}

// Notify POSTs the event. Any non-2xx response is an error.
func (n *WebhookNotifier) Notify(ctx context.Context, ev *event.Matched) error {
	req, err := n.base.New().BodyJSON(ev).Request()
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}

	resp, err := n.client.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}

	n.log.Info("webhook delivered",
		zap.String("event_id", ev.ID),
		zap.Int("status", resp.StatusCode))
	return nil
}
