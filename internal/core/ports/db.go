package ports

import (
	"context"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

// RepoManager interface defines the methods for deals, events, webhooks and
// ledger holdings.
type RepoManager interface {
	DealRepository() domain.DealRepository
	EventRepository() domain.EventRepository
	WebhookRepository() domain.WebhookRepository
	Ledger() Ledger

	Close()

	// RunTransaction executes the handler inside a storage transaction that
	// is committed if the handler returns no error, discarded otherwise.
	// Repositories and ledger called with the context given to the handler
	// take part to the transaction.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)
}
