package inmemory

import (
	"context"
	"sync"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/internal/infrastructure/ledger"
	"github.com/zeto-network/zeto-escrowd/internal/storageutil/uow"
)

type repoManager struct {
	dealRepository    *dealRepositoryImpl
	eventRepository   *eventRepositoryImpl
	webhookRepository *webhookRepositoryImpl
	holdingStore      *holdingStoreImpl
	ledger            ports.Ledger

	// write transactions are serialized.
	txLock *sync.Mutex
}

// NewRepoManager returns a ports.RepoManager keeping everything in memory.
// Transactions are coordinated with a unit of work over all repositories.
func NewRepoManager() ports.RepoManager {
	holdingStore := newHoldingStoreImpl()
	return &repoManager{
		dealRepository:    newDealRepositoryImpl(),
		eventRepository:   newEventRepositoryImpl(),
		webhookRepository: newWebhookRepositoryImpl(),
		holdingStore:      holdingStore,
		ledger:            ledger.NewLedger(holdingStore),
		txLock:            &sync.Mutex{},
	}
}

func (r *repoManager) DealRepository() domain.DealRepository {
	return r.dealRepository
}

func (r *repoManager) EventRepository() domain.EventRepository {
	return r.eventRepository
}

func (r *repoManager) WebhookRepository() domain.WebhookRepository {
	return r.webhookRepository
}

func (r *repoManager) Ledger() ports.Ledger {
	return r.ledger
}

func (r *repoManager) Close() {}

func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if readOnly || r.isInTransaction(ctx) {
		return handler(ctx)
	}

	r.txLock.Lock()
	defer r.txLock.Unlock()

	var result interface{}
	unit := uow.NewUnitOfWork(
		r.dealRepository, r.eventRepository, r.webhookRepository, r.holdingStore,
	)
	if err := unit.Run(ctx, func(ctx context.Context) error {
		res, err := handler(ctx)
		if err != nil {
			return err
		}
		result = res
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repoManager) isInTransaction(ctx context.Context) bool {
	return ctx.Value(uow.ContextKey(r.dealRepository)) != nil
}
