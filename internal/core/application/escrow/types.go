package escrow

import "github.com/zeto-network/zeto-escrowd/internal/core/domain"

// InitDealArgs are the terms proposed by the seller when initializing a deal.
// FeeRecipient defaults to the protocol one if empty.
type InitDealArgs struct {
	ID           domain.DealID
	Seller       string
	Buyer        string
	BaseAsset    string
	QuoteAsset   string
	BaseAmount   uint64
	QuoteAmount  uint64
	ExpiryTime   int64
	FeeRecipient string
}

func (a InitDealArgs) terms(defaultFeeRecipient string) domain.DealTerms {
	feeRecipient := a.FeeRecipient
	if feeRecipient == "" {
		feeRecipient = defaultFeeRecipient
	}
	return domain.DealTerms{
		ID:           a.ID,
		Seller:       a.Seller,
		Buyer:        a.Buyer,
		BaseAsset:    a.BaseAsset,
		QuoteAsset:   a.QuoteAsset,
		BaseAmount:   a.BaseAmount,
		QuoteAmount:  a.QuoteAmount,
		ExpiryTime:   a.ExpiryTime,
		FeeRecipient: feeRecipient,
	}
}

// dealUpdate is the outcome of a committed transition.
type dealUpdate struct {
	deal  *domain.Deal
	event *domain.DealEvent
}
