package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
)

// Service manages webhook subscriptions and turns committed deal events into
// webhook notifications.
type Service struct {
	pubsub ports.PubSub
}

func NewService(pubsub ports.PubSub) *Service {
	return &Service{pubsub}
}

func (s *Service) AddWebhook(
	_ context.Context, topic, endpoint, secret string,
) (string, error) {
	if !domain.IsValidTopic(topic) {
		return "", fmt.Errorf("invalid webhook topic %s", topic)
	}
	return s.pubsub.Subscribe(topic, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	return s.pubsub.Unsubscribe(id)
}

// ListWebhooks returns the hooks notified for the given topic, or all hooks
// if the topic is empty.
func (s *Service) ListWebhooks(
	_ context.Context, topic string,
) ([]WebhookInfo, error) {
	if topic != "" && !domain.IsValidTopic(topic) {
		return nil, fmt.Errorf("invalid webhook topic %s", topic)
	}
	hooks, err := s.pubsub.ListSubscriptionsForTopic(topic)
	if err != nil {
		return nil, err
	}
	info := make([]WebhookInfo, 0, len(hooks))
	for _, h := range hooks {
		info = append(info, WebhookInfo{
			ID:        h.ID,
			Topic:     h.Topic,
			Endpoint:  h.Endpoint,
			IsSecured: h.IsSecured(),
		})
	}
	return info, nil
}

// PublishDealEvent notifies the subscribers of the event topic.
func (s *Service) PublishDealEvent(event domain.DealEvent) error {
	message, err := json.Marshal(getEventPayload(event))
	if err != nil {
		return err
	}
	return s.pubsub.Publish(event.Topic, string(message))
}

func (s *Service) Close() {
	s.pubsub.Close()
}

// WebhookInfo is the public view of a subscription, the secret is never
// returned.
type WebhookInfo struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}
