package escrow

import (
	"context"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

// GetDeal returns the deal with the given id.
func (s *Service) GetDeal(
	ctx context.Context, id domain.DealID,
) (*domain.Deal, error) {
	return s.repoManager.DealRepository().GetDeal(ctx, id)
}

// ListDeals returns the deals matching the given filter.
func (s *Service) ListDeals(
	ctx context.Context, filter domain.DealFilter, page *domain.Page,
) ([]*domain.Deal, error) {
	return s.repoManager.DealRepository().ListDeals(ctx, filter, page)
}

// ListDealEvents returns the history of the given deal.
func (s *Service) ListDealEvents(
	ctx context.Context, id domain.DealID,
) ([]*domain.DealEvent, error) {
	if _, err := s.repoManager.DealRepository().GetDeal(ctx, id); err != nil {
		return nil, err
	}
	return s.repoManager.EventRepository().ListEventsForDeal(ctx, id)
}

// QuoteSettlement returns the amounts that settling the deal would move,
// without moving any fund.
func (s *Service) QuoteSettlement(
	ctx context.Context, id domain.DealID,
) (*domain.Settlement, error) {
	deal, err := s.repoManager.DealRepository().GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}
	return deal.SettlementPlan()
}

// FeeSchedule returns the fees applied to new deals.
func (s *Service) FeeSchedule() domain.FeeSchedule {
	return s.fees
}

// FeeRecipient returns the default recipient of the fees of new deals.
func (s *Service) FeeRecipient() string {
	return s.feeRecipient
}
