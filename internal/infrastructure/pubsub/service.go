package pubsub

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const (
	requestTimeout = 15 * time.Second
)

type service struct {
	repo       domain.WebhookRepository
	httpClient *client
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter

	pending sync.WaitGroup
}

// NewService returns a webhook based pubsub service. Subscriptions are
// persisted in the given repository, deliveries are throttled to the given
// number of requests per second.
func NewService(
	repo domain.WebhookRepository, requestsPerSecond int,
) (ports.PubSub, error) {
	if repo == nil {
		return nil, fmt.Errorf("missing webhook repository")
	}
	limiter := ratelimit.NewUnlimited()
	if requestsPerSecond > 0 {
		limiter = ratelimit.New(requestsPerSecond)
	}

	return &service{
		repo:       repo,
		httpClient: newHTTPClient(requestTimeout),
		cb:         circuitbreaker.NewCircuitBreaker("webhooks"),
		limiter:    limiter,
	}, nil
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	hook, err := domain.NewWebhook(topic, endpoint, secret)
	if err != nil {
		return "", err
	}
	if err := ws.repo.AddWebhook(context.Background(), hook); err != nil {
		return "", err
	}
	return hook.ID, nil
}

func (ws *service) Unsubscribe(id string) error {
	return ws.repo.RemoveWebhook(context.Background(), id)
}

func (ws *service) ListSubscriptionsForTopic(
	topic string,
) ([]*domain.Webhook, error) {
	ctx := context.Background()
	hooks, err := ws.repo.ListWebhooksForTopic(ctx, topic)
	if err != nil {
		return nil, err
	}
	if topic == "" || topic == domain.AnyTopic {
		return hooks, nil
	}

	hooksForAnyTopic, err := ws.repo.ListWebhooksForTopic(ctx, domain.AnyTopic)
	if err != nil {
		return nil, err
	}
	return append(hooks, hooksForAnyTopic...), nil
}

func (ws *service) Publish(topic string, message string) error {
	ws.pending.Add(1)
	defer ws.pending.Done()

	hooks, err := ws.ListSubscriptionsForTopic(topic)
	if err != nil {
		return err
	}

	eg := &errgroup.Group{}
	for i := range hooks {
		hook := hooks[i]
		eg.Go(func() error {
			ws.limiter.Take()
			if err := ws.doRequest(hook, topic, message); err != nil {
				return fmt.Errorf("webhook %s: %w", hook.ID, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Close waits for in-flight deliveries to complete.
func (ws *service) Close() {
	ws.pending.Wait()
}

func (ws *service) doRequest(
	hook *domain.Webhook, topic, payload string,
) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if hook.IsSecured() {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"iat":   time.Now().Unix(),
				"topic": topic,
			})
			tokenString, err := token.SignedString([]byte(hook.Secret))
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(hook.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			log.WithFields(log.Fields{
				"endpoint": hook.Endpoint,
				"status":   status,
			}).Debug("webhook delivery rejected")
			return nil, fmt.Errorf("endpoint replied with status %d: %s", status, resp)
		}
		return nil, nil
	})

	return err
}
