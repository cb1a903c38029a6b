package escrow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/pubsub"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/pkg/stats"
)

// Service is the settlement engine. It drives deals through their lifecycle
// and moves the escrowed funds on the ledger.
type Service struct {
	repoManager  ports.RepoManager
	pubsub       *pubsub.Service
	clock        ports.Clock
	fees         domain.FeeSchedule
	feeRecipient string

	locks      *dealLocks
	publishing sync.WaitGroup
}

func NewService(
	repoManager ports.RepoManager, pubsubSvc *pubsub.Service,
	clock ports.Clock, fees domain.FeeSchedule, feeRecipient string,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if clock == nil {
		return nil, fmt.Errorf("missing clock")
	}
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	if feeRecipient == "" {
		return nil, fmt.Errorf("missing fee recipient")
	}

	return &Service{
		repoManager:  repoManager,
		pubsub:       pubsubSvc,
		clock:        clock,
		fees:         fees,
		feeRecipient: feeRecipient,
		locks:        newDealLocks(),
	}, nil
}

// InitializeDeal creates a new deal in Initialized status. No funds are
// moved.
func (s *Service) InitializeDeal(
	ctx context.Context, args InitDealArgs,
) (*domain.Deal, error) {
	unlock := s.locks.lock(args.ID)
	defer unlock()

	now := s.now()
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			dealRepo := s.repoManager.DealRepository()

			if _, err := dealRepo.GetDeal(ctx, args.ID); err == nil {
				return nil, domain.ErrDealAlreadyExists
			} else if !errors.Is(err, domain.ErrDealNotFound) {
				return nil, err
			}

			deal, err := domain.NewDeal(args.terms(s.feeRecipient), s.fees, now)
			if err != nil {
				return nil, err
			}
			if err := dealRepo.AddDeal(ctx, deal); err != nil {
				return nil, err
			}

			event := domain.NewDealInitializedEvent(deal, now)
			if err := s.repoManager.EventRepository().AddEvent(
				ctx, event,
			); err != nil {
				return nil, err
			}
			return &dealUpdate{deal, event}, nil
		},
	)
	if err != nil {
		stats.ObserveDealOperation("initialize", err)
		return nil, err
	}

	update := res.(*dealUpdate)
	s.committed("initialize", update)
	return update.deal, nil
}

// FundDeal moves the base amount from the seller into the deal vault.
func (s *Service) FundDeal(
	ctx context.Context, id domain.DealID, caller string,
) (*domain.Deal, error) {
	return s.updateDeal(
		ctx, "fund", id,
		func(ctx context.Context, deal *domain.Deal, now int64) (*domain.DealEvent, error) {
			if err := deal.Fund(caller); err != nil {
				return nil, err
			}

			ledger := s.repoManager.Ledger()
			if err := ledger.OpenHolding(
				ctx, deal.VaultAuthority(), deal.BaseAsset,
			); err != nil {
				return nil, fmt.Errorf("failed to open vault: %w", err)
			}
			if err := ledger.Transfer(ctx, ports.TransferArgs{
				Asset:     deal.BaseAsset,
				From:      deal.Seller,
				To:        deal.VaultAddress(),
				Amount:    deal.BaseAmount,
				Authority: domain.SignerAuthority(caller),
			}); err != nil {
				return nil, fmt.Errorf("failed to fund vault: %w", err)
			}

			return domain.NewDealFundedEvent(deal, now), nil
		},
	)
}

// SettleDeal atomically swaps the escrowed base for the buyer's quote,
// withholding the protocol fees.
func (s *Service) SettleDeal(
	ctx context.Context, id domain.DealID, caller string,
) (*domain.Deal, error) {
	return s.updateDeal(
		ctx, "settle", id,
		func(ctx context.Context, deal *domain.Deal, now int64) (*domain.DealEvent, error) {
			settlement, err := deal.Settle(caller, now)
			if err != nil {
				return nil, err
			}

			buyer := domain.SignerAuthority(caller)
			vault := deal.VaultAuthority()
			legs := []ports.TransferArgs{
				{Asset: deal.QuoteAsset, From: deal.Buyer, To: deal.Seller, Amount: settlement.QuoteToSeller, Authority: buyer},
				{Asset: deal.QuoteAsset, From: deal.Buyer, To: deal.FeeRecipient, Amount: settlement.BuyerFee, Authority: buyer},
				{Asset: deal.BaseAsset, From: deal.VaultAddress(), To: deal.Buyer, Amount: settlement.BaseToBuyer, Authority: vault},
				{Asset: deal.BaseAsset, From: deal.VaultAddress(), To: deal.FeeRecipient, Amount: settlement.SellerFee, Authority: vault},
			}
			if err := s.transfer(ctx, legs...); err != nil {
				return nil, err
			}
			if err := s.closeVault(ctx, deal); err != nil {
				return nil, err
			}

			return domain.NewDealSettledEvent(deal, settlement, now), nil
		},
	)
}

// CancelDeal lets the seller withdraw from a deal not yet settled, refunding
// the vault if funded.
func (s *Service) CancelDeal(
	ctx context.Context, id domain.DealID, caller string,
) (*domain.Deal, error) {
	return s.updateDeal(
		ctx, "cancel", id,
		func(ctx context.Context, deal *domain.Deal, now int64) (*domain.DealEvent, error) {
			refund, err := deal.Cancel(caller, now)
			if err != nil {
				return nil, err
			}

			var refunded uint64
			if refund {
				if refunded, err = s.refund(ctx, deal); err != nil {
					return nil, err
				}
			}

			return domain.NewDealCancelledEvent(deal, refunded, now), nil
		},
	)
}

// ReclaimExpiredDeal returns the escrowed funds of an expired deal to the
// seller. It can be invoked by anyone.
func (s *Service) ReclaimExpiredDeal(
	ctx context.Context, id domain.DealID,
) (*domain.Deal, error) {
	return s.updateDeal(
		ctx, "reclaim", id,
		func(ctx context.Context, deal *domain.Deal, now int64) (*domain.DealEvent, error) {
			if err := deal.Reclaim(now); err != nil {
				return nil, err
			}

			refunded, err := s.refund(ctx, deal)
			if err != nil {
				return nil, err
			}

			return domain.NewDealCancelledEvent(deal, refunded, now), nil
		},
	)
}

// updateDeal runs the given transition against the deal read inside a
// storage transaction. The deal record, the ledger transfers and the event
// log are committed together, or not at all.
func (s *Service) updateDeal(
	ctx context.Context, op string, id domain.DealID,
	transition func(ctx context.Context, deal *domain.Deal, now int64) (*domain.DealEvent, error),
) (*domain.Deal, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	now := s.now()
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			update := &dealUpdate{}
			if err := s.repoManager.DealRepository().UpdateDeal(
				ctx, id, func(deal *domain.Deal) (*domain.Deal, error) {
					event, err := transition(ctx, deal, now)
					if err != nil {
						return nil, err
					}
					update.deal = deal
					update.event = event
					return deal, nil
				},
			); err != nil {
				return nil, err
			}

			if err := s.repoManager.EventRepository().AddEvent(
				ctx, update.event,
			); err != nil {
				return nil, err
			}
			return update, nil
		},
	)
	if err != nil {
		stats.ObserveDealOperation(op, err)
		return nil, err
	}

	update := res.(*dealUpdate)
	s.committed(op, update)
	return update.deal, nil
}

// refund moves the whole vault balance back to the seller and closes it.
func (s *Service) refund(
	ctx context.Context, deal *domain.Deal,
) (uint64, error) {
	if err := s.transfer(ctx, ports.TransferArgs{
		Asset:     deal.BaseAsset,
		From:      deal.VaultAddress(),
		To:        deal.Seller,
		Amount:    deal.BaseAmount,
		Authority: deal.VaultAuthority(),
	}); err != nil {
		return 0, err
	}
	if err := s.closeVault(ctx, deal); err != nil {
		return 0, err
	}
	return deal.BaseAmount, nil
}

// transfer executes the given legs in order, zero-amount legs are skipped.
func (s *Service) transfer(
	ctx context.Context, legs ...ports.TransferArgs,
) error {
	ledger := s.repoManager.Ledger()
	for _, leg := range legs {
		if leg.Amount == 0 {
			continue
		}
		if err := ledger.Transfer(ctx, leg); err != nil {
			return fmt.Errorf(
				"failed to transfer %d %s from %s to %s: %w",
				leg.Amount, leg.Asset, leg.From, leg.To, err,
			)
		}
	}
	return nil
}

// closeVault closes the empty vault of the deal, the storage deposit goes
// back to the seller.
func (s *Service) closeVault(ctx context.Context, deal *domain.Deal) error {
	if err := s.repoManager.Ledger().CloseHolding(
		ctx, deal.VaultAddress(), deal.BaseAsset, deal.Seller,
		deal.VaultAuthority(),
	); err != nil {
		return fmt.Errorf("failed to close vault: %w", err)
	}
	return nil
}

// committed logs and publishes a committed transition. Notification errors
// never affect the outcome of the operation.
func (s *Service) committed(op string, update *dealUpdate) {
	stats.ObserveDealOperation(op, nil)

	log.WithFields(log.Fields{
		"deal_id": update.deal.ID.String(),
		"status":  update.deal.Status.String(),
	}).Debugf("deal %s committed", op)

	if s.pubsub == nil {
		return
	}
	s.publishing.Add(1)
	go func(event domain.DealEvent) {
		defer s.publishing.Done()
		if err := s.pubsub.PublishDealEvent(event); err != nil {
			log.WithError(err).Warnf(
				"failed to publish %s event for deal %s",
				event.Topic, event.DealID,
			)
		}
	}(*update.event)
}

// Close waits for the notifications of committed operations to be handed
// over to the pubsub service.
func (s *Service) Close() {
	s.publishing.Wait()
}

func (s *Service) now() int64 {
	return s.clock.Now().Unix()
}
