package ledger

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/pkg/mathutil"
)

// HoldingStore is the storage of ledger holdings. Implementations read the
// storage transaction from the context, if any.
type HoldingStore interface {
	// GetHolding returns the holding or ports.ErrHoldingNotFound.
	GetHolding(ctx context.Context, owner, asset string) (*ports.Holding, error)
	PutHolding(ctx context.Context, holding *ports.Holding) error
	DeleteHolding(ctx context.Context, owner, asset string) error
}

type ledger struct {
	store HoldingStore
}

// NewLedger returns a ports.Ledger keeping balances in the given store.
// A single call is atomic only if the context carries a storage
// transaction.
func NewLedger(store HoldingStore) ports.Ledger {
	return &ledger{store}
}

func (l *ledger) Transfer(ctx context.Context, args ports.TransferArgs) error {
	if args.Amount == 0 {
		return ports.ErrInvalidTransfer
	}

	src, err := l.store.GetHolding(ctx, args.From, args.Asset)
	if err != nil {
		return err
	}
	dst, err := l.getOrNewHolding(ctx, args.To, args.Asset)
	if err != nil {
		return err
	}

	if src.Frozen || dst.Frozen {
		return ports.ErrFrozenAccount
	}
	if src.Balance < args.Amount {
		return ports.ErrInsufficientFunds
	}
	if !args.Authority.CanSpend(src.Owner, src.Custodial) {
		return ports.ErrUnauthorizedSigner
	}
	// A custodial holding only accepts the single deposit that funds it.
	if dst.Custodial && dst.Balance > 0 {
		return ports.ErrUnauthorizedSigner
	}

	if args.From == args.To {
		return nil
	}

	if src.Balance, err = mathutil.CheckedSub(src.Balance, args.Amount); err != nil {
		return err
	}
	if dst.Balance, err = mathutil.CheckedAdd(dst.Balance, args.Amount); err != nil {
		return err
	}

	if err := l.store.PutHolding(ctx, src); err != nil {
		return err
	}
	return l.store.PutHolding(ctx, dst)
}

func (l *ledger) OpenHolding(
	ctx context.Context, authority domain.Authority, asset string,
) error {
	owner := authority.Owner()
	if owner == "" {
		return ports.ErrUnauthorizedSigner
	}

	holding, err := l.store.GetHolding(ctx, owner, asset)
	if err != nil {
		if !errors.Is(err, ports.ErrHoldingNotFound) {
			return err
		}
		return l.store.PutHolding(ctx, &ports.Holding{
			Owner:     owner,
			Asset:     asset,
			Custodial: authority.IsCustodial(),
		})
	}

	if holding.Custodial != authority.IsCustodial() {
		return ports.ErrUnauthorizedSigner
	}
	return nil
}

func (l *ledger) CloseHolding(
	ctx context.Context, owner, asset, rentDestination string,
	authority domain.Authority,
) error {
	holding, err := l.store.GetHolding(ctx, owner, asset)
	if err != nil {
		return err
	}
	if !authority.CanSpend(holding.Owner, holding.Custodial) {
		return ports.ErrUnauthorizedSigner
	}
	if holding.Balance > 0 {
		return ports.ErrHoldingNotEmpty
	}
	if rentDestination == "" {
		return fmt.Errorf("missing rent destination")
	}

	if err := l.store.DeleteHolding(ctx, owner, asset); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"owner":            owner,
		"asset":            asset,
		"rent_destination": rentDestination,
	}).Debug("holding closed")
	return nil
}

func (l *ledger) Balance(
	ctx context.Context, owner, asset string,
) (uint64, error) {
	holding, err := l.store.GetHolding(ctx, owner, asset)
	if err != nil {
		if errors.Is(err, ports.ErrHoldingNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return holding.Balance, nil
}

func (l *ledger) GetHolding(
	ctx context.Context, owner, asset string,
) (*ports.Holding, error) {
	return l.store.GetHolding(ctx, owner, asset)
}

func (l *ledger) Credit(
	ctx context.Context, owner, asset string, amount uint64,
) error {
	if amount == 0 {
		return ports.ErrInvalidTransfer
	}
	if owner == "" || asset == "" {
		return fmt.Errorf("missing owner or asset")
	}

	holding, err := l.getOrNewHolding(ctx, owner, asset)
	if err != nil {
		return err
	}
	if holding.Custodial {
		return ports.ErrUnauthorizedSigner
	}
	if holding.Balance, err = mathutil.CheckedAdd(holding.Balance, amount); err != nil {
		return err
	}
	return l.store.PutHolding(ctx, holding)
}

func (l *ledger) Freeze(ctx context.Context, owner, asset string) error {
	return l.setFrozen(ctx, owner, asset, true)
}

func (l *ledger) Unfreeze(ctx context.Context, owner, asset string) error {
	return l.setFrozen(ctx, owner, asset, false)
}

func (l *ledger) setFrozen(
	ctx context.Context, owner, asset string, frozen bool,
) error {
	holding, err := l.store.GetHolding(ctx, owner, asset)
	if err != nil {
		return err
	}
	if holding.Frozen == frozen {
		return nil
	}
	holding.Frozen = frozen
	return l.store.PutHolding(ctx, holding)
}

func (l *ledger) getOrNewHolding(
	ctx context.Context, owner, asset string,
) (*ports.Holding, error) {
	holding, err := l.store.GetHolding(ctx, owner, asset)
	if err == nil {
		return holding, nil
	}
	if !errors.Is(err, ports.ErrHoldingNotFound) {
		return nil, err
	}
	return &ports.Holding{Owner: owner, Asset: asset}, nil
}
