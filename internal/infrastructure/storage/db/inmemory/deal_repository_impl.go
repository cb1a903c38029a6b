package inmemory

import (
	"context"
	"sync"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/storageutil/uow"
)

type dealTxKey struct{}

type dealRepositoryImpl struct {
	deals map[domain.DealID]domain.Deal
	lock  *sync.RWMutex
}

func newDealRepositoryImpl() *dealRepositoryImpl {
	return &dealRepositoryImpl{
		deals: map[domain.DealID]domain.Deal{},
		lock:  &sync.RWMutex{},
	}
}

func (r *dealRepositoryImpl) AddDeal(
	ctx context.Context, deal *domain.Deal,
) error {
	if _, err := r.GetDeal(ctx, deal.ID); err == nil {
		return domain.ErrDealAlreadyExists
	}
	r.put(ctx, deal)
	return nil
}

func (r *dealRepositoryImpl) GetDeal(
	ctx context.Context, id domain.DealID,
) (*domain.Deal, error) {
	if tx := r.txFromContext(ctx); tx != nil {
		if deal, ok := tx.deals[id]; ok {
			return &deal, nil
		}
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	deal, ok := r.deals[id]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	return &deal, nil
}

func (r *dealRepositoryImpl) ListDeals(
	ctx context.Context, filter domain.DealFilter, page *domain.Page,
) ([]*domain.Deal, error) {
	deals := make(map[domain.DealID]domain.Deal)

	r.lock.RLock()
	for id, deal := range r.deals {
		deals[id] = deal
	}
	r.lock.RUnlock()

	if tx := r.txFromContext(ctx); tx != nil {
		for id, deal := range tx.deals {
			deals[id] = deal
		}
	}

	list := make([]*domain.Deal, 0, len(deals))
	for id := range deals {
		deal := deals[id]
		if filter.Match(&deal) {
			list = append(list, &deal)
		}
	}
	domain.SortDeals(list)

	if page == nil {
		return list, nil
	}
	start, end := page.Bounds(len(list))
	return list[start:end], nil
}

func (r *dealRepositoryImpl) UpdateDeal(
	ctx context.Context,
	id domain.DealID,
	updateFn func(d *domain.Deal) (*domain.Deal, error),
) error {
	deal, err := r.GetDeal(ctx, id)
	if err != nil {
		return err
	}

	updatedDeal, err := updateFn(deal)
	if err != nil {
		return err
	}

	r.put(ctx, updatedDeal)
	return nil
}

// Begin returns a new transaction collecting the deals written through it.
func (r *dealRepositoryImpl) Begin() (uow.Tx, error) {
	return &dealRepositoryTx{r, map[domain.DealID]domain.Deal{}}, nil
}

func (r *dealRepositoryImpl) ContextKey() interface{} {
	return dealTxKey{}
}

func (r *dealRepositoryImpl) put(ctx context.Context, deal *domain.Deal) {
	if tx := r.txFromContext(ctx); tx != nil {
		tx.deals[deal.ID] = *deal
		return
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.deals[deal.ID] = *deal
}

func (r *dealRepositoryImpl) txFromContext(ctx context.Context) *dealRepositoryTx {
	tx, _ := ctx.Value(dealTxKey{}).(*dealRepositoryTx)
	return tx
}

type dealRepositoryTx struct {
	root  *dealRepositoryImpl
	deals map[domain.DealID]domain.Deal
}

// Commit applies the updates made to the state of the transaction to its root
func (tx *dealRepositoryTx) Commit() error {
	tx.root.lock.Lock()
	defer tx.root.lock.Unlock()

	for id, deal := range tx.deals {
		tx.root.deals[id] = deal
	}
	return nil
}

// Rollback drops the updates made to the state of the transaction
func (tx *dealRepositoryTx) Rollback() error {
	tx.deals = map[domain.DealID]domain.Deal{}
	return nil
}
