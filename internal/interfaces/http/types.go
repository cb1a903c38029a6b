package httpinterface

import (
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
	"github.com/zeto-network/zeto-escrowd/pkg/mathutil"
)

type initDealRequest struct {
	// ID is either the 64-chars hex id or a label of up to 32 bytes.
	ID           string `json:"id"`
	Buyer        string `json:"buyer"`
	BaseAsset    string `json:"base_asset"`
	QuoteAsset   string `json:"quote_asset"`
	BaseAmount   uint64 `json:"base_amount"`
	QuoteAmount  uint64 `json:"quote_amount"`
	ExpiryTime   int64  `json:"expiry_time"`
	FeeRecipient string `json:"fee_recipient,omitempty"`
}

type holdingRequest struct {
	Owner  string `json:"owner"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount,omitempty"`
}

type webhookRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}

type dealView struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	VaultAddress string `json:"vault_address"`
	Seller       string `json:"seller"`
	Buyer        string `json:"buyer"`
	BaseAsset    string `json:"base_asset"`
	QuoteAsset   string `json:"quote_asset"`
	BaseAmount   uint64 `json:"base_amount"`
	QuoteAmount  uint64 `json:"quote_amount"`
	ExpiryTime   int64  `json:"expiry_time"`
	FeeBps       uint16 `json:"fee_bps"`
	SellerFeeBps uint16 `json:"seller_fee_bps"`
	FeeRecipient string `json:"fee_recipient"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"created_at"`
	SettledAt    int64  `json:"settled_at,omitempty"`
	CancelledAt  int64  `json:"cancelled_at,omitempty"`
}

func newDealView(d *domain.Deal) dealView {
	return dealView{
		ID:           d.ID.String(),
		Address:      d.Address(),
		VaultAddress: d.VaultAddress(),
		Seller:       d.Seller,
		Buyer:        d.Buyer,
		BaseAsset:    d.BaseAsset,
		QuoteAsset:   d.QuoteAsset,
		BaseAmount:   d.BaseAmount,
		QuoteAmount:  d.QuoteAmount,
		ExpiryTime:   d.ExpiryTime,
		FeeBps:       d.FeeBps,
		SellerFeeBps: d.SellerFeeBps,
		FeeRecipient: d.FeeRecipient,
		Status:       d.Status.String(),
		CreatedAt:    d.CreatedAt,
		SettledAt:    d.SettledAt,
		CancelledAt:  d.CancelledAt,
	}
}

func newDealViews(deals []*domain.Deal) []dealView {
	views := make([]dealView, 0, len(deals))
	for _, d := range deals {
		views = append(views, newDealView(d))
	}
	return views
}

type settlementView struct {
	BaseToBuyer   uint64 `json:"base_to_buyer"`
	QuoteToSeller uint64 `json:"quote_to_seller"`
	BuyerFee      uint64 `json:"buyer_fee"`
	SellerFee     uint64 `json:"seller_fee"`
}

type holdingView struct {
	Owner     string `json:"owner"`
	Asset     string `json:"asset"`
	Balance   uint64 `json:"balance"`
	Custodial bool   `json:"custodial"`
	Frozen    bool   `json:"frozen"`
}

func newHoldingView(h *ports.Holding) holdingView {
	return holdingView{h.Owner, h.Asset, h.Balance, h.Custodial, h.Frozen}
}

type infoView struct {
	FeeBps           uint16 `json:"fee_bps"`
	FeePercentage    string `json:"fee_percentage"`
	SellerFeeBps     uint16 `json:"seller_fee_bps"`
	SellerPercentage string `json:"seller_fee_percentage"`
	FeeRecipient     string `json:"fee_recipient"`
}

func newInfoView(fees domain.FeeSchedule, feeRecipient string) infoView {
	return infoView{
		FeeBps:           fees.BuyerFeeBps,
		FeePercentage:    mathutil.FormatBasisPoint(uint64(fees.BuyerFeeBps)),
		SellerFeeBps:     fees.SellerFeeBps,
		SellerPercentage: mathutil.FormatBasisPoint(uint64(fees.SellerFeeBps)),
		FeeRecipient:     feeRecipient,
	}
}
