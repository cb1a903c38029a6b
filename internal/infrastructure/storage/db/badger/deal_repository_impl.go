package dbbadger

import (
	"context"
	"errors"

	"github.com/timshannon/badgerhold/v4"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

type dealRepositoryImpl struct {
	store *badgerhold.Store
}

func newDealRepositoryImpl(store *badgerhold.Store) domain.DealRepository {
	return dealRepositoryImpl{store}
}

func (r dealRepositoryImpl) AddDeal(
	ctx context.Context, deal *domain.Deal,
) error {
	var err error
	key := deal.ID.String()
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, key, *deal)
	} else {
		err = r.store.Insert(key, *deal)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrDealAlreadyExists
		}
		return err
	}
	return nil
}

func (r dealRepositoryImpl) GetDeal(
	ctx context.Context, id domain.DealID,
) (*domain.Deal, error) {
	var deal domain.Deal
	var err error

	key := id.String()
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, key, &deal)
	} else {
		err = r.store.Get(key, &deal)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrDealNotFound
		}
		return nil, err
	}
	return &deal, nil
}

func (r dealRepositoryImpl) ListDeals(
	ctx context.Context, filter domain.DealFilter, page *domain.Page,
) ([]*domain.Deal, error) {
	var deals []domain.Deal
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &deals, nil)
	} else {
		err = r.store.Find(&deals, nil)
	}
	if err != nil {
		return nil, err
	}

	list := make([]*domain.Deal, 0, len(deals))
	for i := range deals {
		if filter.Match(&deals[i]) {
			list = append(list, &deals[i])
		}
	}
	domain.SortDeals(list)

	if page == nil {
		return list, nil
	}
	start, end := page.Bounds(len(list))
	return list[start:end], nil
}

func (r dealRepositoryImpl) UpdateDeal(
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

	key := id.String()
	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpdate(tx, key, *updatedDeal)
	}
	return r.store.Update(key, *updatedDeal)
}
