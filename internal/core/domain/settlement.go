package domain

import "github.com/zeto-network/zeto-escrowd/pkg/mathutil"

// Settlement holds the amounts moved when a deal is settled.
// BaseToBuyer + SellerFee always equals the deal's BaseAmount, QuoteToSeller +
// BuyerFee always equals its QuoteAmount.
type Settlement struct {
	BaseToBuyer   uint64
	QuoteToSeller uint64
	BuyerFee      uint64
	SellerFee     uint64
}

// SettlementPlan computes the settlement amounts of the deal with checked
// arithmetic, fees are rounded down.
func (d *Deal) SettlementPlan() (*Settlement, error) {
	quoteToSeller, buyerFee, err := mathutil.LessFee(
		d.QuoteAmount, uint64(d.FeeBps),
	)
	if err != nil {
		return nil, err
	}
	baseToBuyer, sellerFee, err := mathutil.LessFee(
		d.BaseAmount, uint64(d.SellerFeeBps),
	)
	if err != nil {
		return nil, err
	}

	return &Settlement{
		BaseToBuyer:   baseToBuyer,
		QuoteToSeller: quoteToSeller,
		BuyerFee:      buyerFee,
		SellerFee:     sellerFee,
	}, nil
}
