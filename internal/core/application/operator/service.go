package operator

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/pubsub"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
)

// Service exposes the administrative operations of the daemon: minting
// balances on the local ledger, freezing holdings and managing webhooks.
type Service struct {
	pubsub      *pubsub.Service
	repoManager ports.RepoManager
}

func NewService(
	pubsubSvc *pubsub.Service, repoManager ports.RepoManager,
) (*Service, error) {
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Service{pubsubSvc, repoManager}, nil
}

// Credit mints the given amount into the holding of owner.
func (s *Service) Credit(
	ctx context.Context, owner, asset string, amount uint64,
) (*ports.Holding, error) {
	if err := validateHolding(owner, asset); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, ErrInvalidCredit
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			ledger := s.repoManager.Ledger()
			if err := ledger.Credit(ctx, owner, asset, amount); err != nil {
				return nil, err
			}
			return ledger.GetHolding(ctx, owner, asset)
		},
	)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"owner":  owner,
		"asset":  asset,
		"amount": amount,
	}).Info("credited holding")
	return res.(*ports.Holding), nil
}

// Freeze blocks any transfer from or to the given holding.
func (s *Service) Freeze(ctx context.Context, owner, asset string) error {
	return s.setFrozen(ctx, owner, asset, true)
}

func (s *Service) Unfreeze(ctx context.Context, owner, asset string) error {
	return s.setFrozen(ctx, owner, asset, false)
}

// GetHolding returns the holding of owner for the given asset.
func (s *Service) GetHolding(
	ctx context.Context, owner, asset string,
) (*ports.Holding, error) {
	if err := validateHolding(owner, asset); err != nil {
		return nil, err
	}
	return s.repoManager.Ledger().GetHolding(ctx, owner, asset)
}

func (s *Service) setFrozen(
	ctx context.Context, owner, asset string, frozen bool,
) error {
	if err := validateHolding(owner, asset); err != nil {
		return err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			ledger := s.repoManager.Ledger()
			if frozen {
				return nil, ledger.Freeze(ctx, owner, asset)
			}
			return nil, ledger.Unfreeze(ctx, owner, asset)
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"owner":  owner,
		"asset":  asset,
		"frozen": frozen,
	}).Info("updated holding")
	return nil
}

func validateHolding(owner, asset string) error {
	if owner == "" {
		return ErrMissingOwner
	}
	if asset == "" {
		return ErrMissingAsset
	}
	return nil
}
