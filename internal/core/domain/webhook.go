package domain

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Webhook is an endpoint notified with the events of a certain topic.
type Webhook struct {
	ID       string
	Topic    string
	Endpoint string
	Secret   string
}

func NewWebhook(topic, endpoint, secret string) (*Webhook, error) {
	if !IsValidTopic(topic) {
		return nil, fmt.Errorf("unknown webhook topic %s", topic)
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid webhook endpoint, must be a valid URI")
	}
	return &Webhook{uuid.New().String(), topic, endpoint, secret}, nil
}

func (w *Webhook) IsSecured() bool {
	return len(w.Secret) > 0
}

// WebhookRepository persists webhook subscriptions.
type WebhookRepository interface {
	AddWebhook(ctx context.Context, hook *Webhook) error
	RemoveWebhook(ctx context.Context, id string) error
	GetWebhook(ctx context.Context, id string) (*Webhook, error)
	// ListWebhooksForTopic returns the hooks subscribed for the given topic,
	// or all of them if the topic is empty.
	ListWebhooksForTopic(ctx context.Context, topic string) ([]*Webhook, error)
}
