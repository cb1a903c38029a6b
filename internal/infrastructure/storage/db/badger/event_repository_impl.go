package dbbadger

import (
	"context"
	"sort"

	"github.com/timshannon/badgerhold/v4"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

// dealEvent is the stored version of a domain.DealEvent, indexed by deal.
type dealEvent struct {
	Sequence uint64 `badgerhold:"key"`
	DealID   string `badgerhold:"index"`
	Event    domain.DealEvent
}

type eventRepositoryImpl struct {
	store *badgerhold.Store
}

func newEventRepositoryImpl(store *badgerhold.Store) domain.EventRepository {
	return eventRepositoryImpl{store}
}

func (r eventRepositoryImpl) AddEvent(
	ctx context.Context, event *domain.DealEvent,
) error {
	var err error
	stored := &dealEvent{
		DealID: event.DealID.String(),
		Event:  *event,
	}
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, badgerhold.NextSequence(), stored)
	} else {
		err = r.store.Insert(badgerhold.NextSequence(), stored)
	}
	if err != nil {
		return err
	}

	event.Sequence = stored.Sequence
	return nil
}

func (r eventRepositoryImpl) ListEventsForDeal(
	ctx context.Context, id domain.DealID,
) ([]*domain.DealEvent, error) {
	var stored []dealEvent
	var err error

	query := badgerhold.Where("DealID").Eq(id.String()).Index("DealID")
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &stored, query)
	} else {
		err = r.store.Find(&stored, query)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].Sequence < stored[j].Sequence
	})

	events := make([]*domain.DealEvent, 0, len(stored))
	for i := range stored {
		event := stored[i].Event
		event.Sequence = stored[i].Sequence
		events = append(events, &event)
	}
	return events, nil
}
