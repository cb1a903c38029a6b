package inmemory

import (
	"context"
	"sync"

	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/internal/storageutil/uow"
)

type holdingTxKey struct{}

type holdingKey struct {
	owner string
	asset string
}

type holdingStoreImpl struct {
	holdings map[holdingKey]ports.Holding
	lock     *sync.RWMutex
}

func newHoldingStoreImpl() *holdingStoreImpl {
	return &holdingStoreImpl{
		holdings: map[holdingKey]ports.Holding{},
		lock:     &sync.RWMutex{},
	}
}

func (s *holdingStoreImpl) GetHolding(
	ctx context.Context, owner, asset string,
) (*ports.Holding, error) {
	key := holdingKey{owner, asset}
	if tx := s.txFromContext(ctx); tx != nil {
		if holding, ok := tx.holdings[key]; ok {
			if holding == nil {
				return nil, ports.ErrHoldingNotFound
			}
			h := *holding
			return &h, nil
		}
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	holding, ok := s.holdings[key]
	if !ok {
		return nil, ports.ErrHoldingNotFound
	}
	return &holding, nil
}

func (s *holdingStoreImpl) PutHolding(
	ctx context.Context, holding *ports.Holding,
) error {
	key := holdingKey{holding.Owner, holding.Asset}
	if tx := s.txFromContext(ctx); tx != nil {
		h := *holding
		tx.holdings[key] = &h
		return nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.holdings[key] = *holding
	return nil
}

func (s *holdingStoreImpl) DeleteHolding(
	ctx context.Context, owner, asset string,
) error {
	key := holdingKey{owner, asset}
	if tx := s.txFromContext(ctx); tx != nil {
		tx.holdings[key] = nil
		return nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.holdings, key)
	return nil
}

// Begin returns a new transaction collecting the holdings written through it.
func (s *holdingStoreImpl) Begin() (uow.Tx, error) {
	return &holdingStoreTx{s, map[holdingKey]*ports.Holding{}}, nil
}

func (s *holdingStoreImpl) ContextKey() interface{} {
	return holdingTxKey{}
}

func (s *holdingStoreImpl) txFromContext(ctx context.Context) *holdingStoreTx {
	tx, _ := ctx.Value(holdingTxKey{}).(*holdingStoreTx)
	return tx
}

type holdingStoreTx struct {
	root *holdingStoreImpl
	// nil values are deletions.
	holdings map[holdingKey]*ports.Holding
}

func (tx *holdingStoreTx) Commit() error {
	tx.root.lock.Lock()
	defer tx.root.lock.Unlock()

	for key, holding := range tx.holdings {
		if holding == nil {
			delete(tx.root.holdings, key)
			continue
		}
		tx.root.holdings[key] = *holding
	}
	return nil
}

func (tx *holdingStoreTx) Rollback() error {
	tx.holdings = map[holdingKey]*ports.Holding{}
	return nil
}
