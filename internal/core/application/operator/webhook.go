package operator

import (
	"context"

	"github.com/zeto-network/zeto-escrowd/internal/core/application/pubsub"
)

func (s *Service) AddWebhook(
	ctx context.Context, topic, endpoint, secret string,
) (string, error) {
	return s.pubsub.AddWebhook(ctx, topic, endpoint, secret)
}

func (s *Service) RemoveWebhook(ctx context.Context, id string) error {
	return s.pubsub.RemoveWebhook(ctx, id)
}

func (s *Service) ListWebhooks(
	ctx context.Context, topic string,
) ([]pubsub.WebhookInfo, error) {
	return s.pubsub.ListWebhooks(ctx, topic)
}
