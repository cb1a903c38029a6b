package ports

import (
	"context"
	"errors"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrFrozenAccount      = errors.New("holding is frozen")
	ErrHoldingNotFound    = errors.New("holding not found")
	ErrHoldingNotEmpty    = errors.New("holding balance is not zero")
	ErrUnauthorizedSigner = errors.New("authority is not allowed to spend from holding")
	ErrInvalidTransfer    = errors.New("transfer amount must be greater than zero")
)

// TransferArgs describes a single movement of units of an asset between two
// holdings.
type TransferArgs struct {
	Asset     string
	From      string
	To        string
	Amount    uint64
	Authority domain.Authority
}

// Holding is the balance of an asset owned by an identity.
type Holding struct {
	Owner     string
	Asset     string
	Balance   uint64
	Custodial bool
	Frozen    bool
}

// Ledger is the asset-transfer collaborator of the escrow engine. Every
// method reads the storage transaction, if any, from the context so that
// ledger writes commit or abort together with the deal record.
type Ledger interface {
	// Transfer moves Amount units of Asset from the holding of From to the
	// one of To, creating the destination holding if missing. The authority
	// must be allowed to spend from the source holding.
	Transfer(ctx context.Context, args TransferArgs) error
	// OpenHolding makes sure a holding exists for the owner of the authority
	// and the given asset, flagging it as custodial if the authority is.
	OpenHolding(ctx context.Context, authority domain.Authority, asset string) error
	// CloseHolding removes an empty holding. Storage deposits, if any, are
	// released to rentDestination.
	CloseHolding(
		ctx context.Context, owner, asset, rentDestination string,
		authority domain.Authority,
	) error
	// Balance returns the balance of the holding, zero if not found.
	Balance(ctx context.Context, owner, asset string) (uint64, error)
	// GetHolding returns the holding or ErrHoldingNotFound.
	GetHolding(ctx context.Context, owner, asset string) (*Holding, error)

	// Credit mints units of an asset into a non-custodial holding.
	Credit(ctx context.Context, owner, asset string, amount uint64) error
	// Freeze prevents any debit from the holding.
	Freeze(ctx context.Context, owner, asset string) error
	// Unfreeze reverts Freeze.
	Unfreeze(ctx context.Context, owner, asset string) error
}
