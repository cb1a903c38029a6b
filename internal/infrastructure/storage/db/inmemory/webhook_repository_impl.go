package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/storageutil/uow"
)

type webhookTxKey struct{}

type webhookRepositoryImpl struct {
	webhooks map[string]domain.Webhook
	lock     *sync.RWMutex
}

func newWebhookRepositoryImpl() *webhookRepositoryImpl {
	return &webhookRepositoryImpl{
		webhooks: map[string]domain.Webhook{},
		lock:     &sync.RWMutex{},
	}
}

func (r *webhookRepositoryImpl) AddWebhook(
	ctx context.Context, hook *domain.Webhook,
) error {
	if tx := r.txFromContext(ctx); tx != nil {
		tx.webhooks[hook.ID] = hook
		return nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.webhooks[hook.ID] = *hook
	return nil
}

func (r *webhookRepositoryImpl) RemoveWebhook(
	ctx context.Context, id string,
) error {
	if _, err := r.GetWebhook(ctx, id); err != nil {
		return err
	}

	if tx := r.txFromContext(ctx); tx != nil {
		tx.webhooks[id] = nil
		return nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.webhooks, id)
	return nil
}

func (r *webhookRepositoryImpl) GetWebhook(
	ctx context.Context, id string,
) (*domain.Webhook, error) {
	if tx := r.txFromContext(ctx); tx != nil {
		if hook, ok := tx.webhooks[id]; ok {
			if hook == nil {
				return nil, domain.ErrWebhookNotFound
			}
			h := *hook
			return &h, nil
		}
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	hook, ok := r.webhooks[id]
	if !ok {
		return nil, domain.ErrWebhookNotFound
	}
	return &hook, nil
}

func (r *webhookRepositoryImpl) ListWebhooksForTopic(
	ctx context.Context, topic string,
) ([]*domain.Webhook, error) {
	hooks := map[string]*domain.Webhook{}

	r.lock.RLock()
	for id := range r.webhooks {
		hook := r.webhooks[id]
		hooks[id] = &hook
	}
	r.lock.RUnlock()

	if tx := r.txFromContext(ctx); tx != nil {
		for id, hook := range tx.webhooks {
			if hook == nil {
				delete(hooks, id)
				continue
			}
			h := *hook
			hooks[id] = &h
		}
	}

	list := make([]*domain.Webhook, 0, len(hooks))
	for _, hook := range hooks {
		if topic == "" || hook.Topic == topic {
			list = append(list, hook)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Begin returns a new transaction collecting the hooks written through it.
func (r *webhookRepositoryImpl) Begin() (uow.Tx, error) {
	return &webhookRepositoryTx{r, map[string]*domain.Webhook{}}, nil
}

func (r *webhookRepositoryImpl) ContextKey() interface{} {
	return webhookTxKey{}
}

func (r *webhookRepositoryImpl) txFromContext(
	ctx context.Context,
) *webhookRepositoryTx {
	tx, _ := ctx.Value(webhookTxKey{}).(*webhookRepositoryTx)
	return tx
}

type webhookRepositoryTx struct {
	root *webhookRepositoryImpl
	// nil values are removals.
	webhooks map[string]*domain.Webhook
}

func (tx *webhookRepositoryTx) Commit() error {
	tx.root.lock.Lock()
	defer tx.root.lock.Unlock()

	for id, hook := range tx.webhooks {
		if hook == nil {
			delete(tx.root.webhooks, id)
			continue
		}
		tx.root.webhooks[id] = *hook
	}
	return nil
}

func (tx *webhookRepositoryTx) Rollback() error {
	tx.webhooks = map[string]*domain.Webhook{}
	return nil
}
