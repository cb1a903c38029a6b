package domain

import "context"

// EventRepository is the append-only log of committed deal events.
type EventRepository interface {
	// AddEvent appends the event to the log, assigning it the next sequence
	// number.
	AddEvent(ctx context.Context, event *DealEvent) error
	// ListEventsForDeal returns the events of a deal in emission order.
	ListEventsForDeal(ctx context.Context, id DealID) ([]*DealEvent, error)
}
