package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/timshannon/badgerhold/v4"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

type webhookRepositoryImpl struct {
	store *badgerhold.Store
}

func newWebhookRepositoryImpl(
	store *badgerhold.Store,
) domain.WebhookRepository {
	return webhookRepositoryImpl{store}
}

func (r webhookRepositoryImpl) AddWebhook(
	ctx context.Context, hook *domain.Webhook,
) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxUpsert(tx, hook.ID, *hook)
	} else {
		err = r.store.Upsert(hook.ID, *hook)
	}
	return err
}

func (r webhookRepositoryImpl) RemoveWebhook(
	ctx context.Context, id string,
) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxDelete(tx, id, domain.Webhook{})
	} else {
		err = r.store.Delete(id, domain.Webhook{})
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrWebhookNotFound
		}
		return err
	}
	return nil
}

func (r webhookRepositoryImpl) GetWebhook(
	ctx context.Context, id string,
) (*domain.Webhook, error) {
	var hook domain.Webhook
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, id, &hook)
	} else {
		err = r.store.Get(id, &hook)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrWebhookNotFound
		}
		return nil, err
	}
	return &hook, nil
}

func (r webhookRepositoryImpl) ListWebhooksForTopic(
	ctx context.Context, topic string,
) ([]*domain.Webhook, error) {
	var hooks []domain.Webhook
	var err error

	var query *badgerhold.Query
	if topic != "" {
		query = badgerhold.Where("Topic").Eq(topic)
	}
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &hooks, query)
	} else {
		err = r.store.Find(&hooks, query)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(hooks, func(i, j int) bool {
		return hooks[i].ID < hooks[j].ID
	})
	list := make([]*domain.Webhook, 0, len(hooks))
	for i := range hooks {
		list = append(list, &hooks[i])
	}
	return list, nil
}
