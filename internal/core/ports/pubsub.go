package ports

import "github.com/zeto-network/zeto-escrowd/internal/core/domain"

// PubSub defines the methods of the service notifying subscribers about deal
// events.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id.
	Unsubscribe(id string) error
	// ListSubscriptionsForTopic returns all clients subscribed for a certain
	// topic, including those subscribed for any topic.
	ListSubscriptionsForTopic(topic string) ([]*domain.Webhook, error)
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	Publish(topic string, message string) error
	// Close waits for pending deliveries to complete.
	Close()
}
