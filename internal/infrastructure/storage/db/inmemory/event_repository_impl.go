package inmemory

import (
	"context"
	"sync"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/storageutil/uow"
)

type eventTxKey struct{}

type eventRepositoryImpl struct {
	events []domain.DealEvent
	lock   *sync.RWMutex
}

func newEventRepositoryImpl() *eventRepositoryImpl {
	return &eventRepositoryImpl{
		events: make([]domain.DealEvent, 0),
		lock:   &sync.RWMutex{},
	}
}

func (r *eventRepositoryImpl) AddEvent(
	ctx context.Context, event *domain.DealEvent,
) error {
	if tx := r.txFromContext(ctx); tx != nil {
		tx.events = append(tx.events, event)
		return nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.append(event)
	return nil
}

func (r *eventRepositoryImpl) ListEventsForDeal(
	ctx context.Context, id domain.DealID,
) ([]*domain.DealEvent, error) {
	r.lock.RLock()
	events := make([]*domain.DealEvent, 0)
	for i := range r.events {
		if r.events[i].DealID == id {
			event := r.events[i]
			events = append(events, &event)
		}
	}
	r.lock.RUnlock()

	if tx := r.txFromContext(ctx); tx != nil {
		for _, event := range tx.events {
			if event.DealID == id {
				e := *event
				events = append(events, &e)
			}
		}
	}
	return events, nil
}

// Begin returns a new transaction collecting the events appended through it.
func (r *eventRepositoryImpl) Begin() (uow.Tx, error) {
	return &eventRepositoryTx{root: r}, nil
}

func (r *eventRepositoryImpl) ContextKey() interface{} {
	return eventTxKey{}
}

// append assigns the next sequence number to the event and adds it to the
// log. Must be called with the lock held.
func (r *eventRepositoryImpl) append(event *domain.DealEvent) {
	event.Sequence = uint64(len(r.events)) + 1
	r.events = append(r.events, *event)
}

func (r *eventRepositoryImpl) txFromContext(ctx context.Context) *eventRepositoryTx {
	tx, _ := ctx.Value(eventTxKey{}).(*eventRepositoryTx)
	return tx
}

type eventRepositoryTx struct {
	root   *eventRepositoryImpl
	events []*domain.DealEvent
}

// Commit appends the events of the transaction to the log of its root
func (tx *eventRepositoryTx) Commit() error {
	tx.root.lock.Lock()
	defer tx.root.lock.Unlock()

	for _, event := range tx.events {
		tx.root.append(event)
	}
	return nil
}

// Rollback drops the events appended in the transaction
func (tx *eventRepositoryTx) Rollback() error {
	tx.events = nil
	return nil
}
