package dbbadger

import (
	"context"
	"errors"
	"fmt"

	"github.com/timshannon/badgerhold/v4"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
)

type holdingStoreImpl struct {
	store *badgerhold.Store
}

func newHoldingStoreImpl(store *badgerhold.Store) holdingStoreImpl {
	return holdingStoreImpl{store}
}

func (s holdingStoreImpl) GetHolding(
	ctx context.Context, owner, asset string,
) (*ports.Holding, error) {
	var holding ports.Holding
	var err error

	key := holdingKey(owner, asset)
	if tx := txFromContext(ctx); tx != nil {
		err = s.store.TxGet(tx, key, &holding)
	} else {
		err = s.store.Get(key, &holding)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ports.ErrHoldingNotFound
		}
		return nil, err
	}
	return &holding, nil
}

func (s holdingStoreImpl) PutHolding(
	ctx context.Context, holding *ports.Holding,
) error {
	key := holdingKey(holding.Owner, holding.Asset)
	if tx := txFromContext(ctx); tx != nil {
		return s.store.TxUpsert(tx, key, *holding)
	}
	return s.store.Upsert(key, *holding)
}

func (s holdingStoreImpl) DeleteHolding(
	ctx context.Context, owner, asset string,
) error {
	var err error
	key := holdingKey(owner, asset)
	if tx := txFromContext(ctx); tx != nil {
		err = s.store.TxDelete(tx, key, ports.Holding{})
	} else {
		err = s.store.Delete(key, ports.Holding{})
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ports.ErrHoldingNotFound
		}
		return err
	}
	return nil
}

// holdingKey prefixes the owner with its length so that owners and assets
// containing the separator never map to the same key.
func holdingKey(owner, asset string) string {
	return fmt.Sprintf("%d:%s/%s", len(owner), owner, asset)
}
