package domain

const (
	DealInitializedTopic = "DEAL_INITIALIZED"
	DealFundedTopic      = "DEAL_FUNDED"
	DealSettledTopic     = "DEAL_SETTLED"
	DealCancelledTopic   = "DEAL_CANCELLED"
	// AnyTopic matches every deal event.
	AnyTopic = "*"
)

var dealTopics = map[string]struct{}{
	DealInitializedTopic: {},
	DealFundedTopic:      {},
	DealSettledTopic:     {},
	DealCancelledTopic:   {},
	AnyTopic:             {},
}

// IsValidTopic returns whether the given topic is one of the known deal
// topics or the wildcard one.
func IsValidTopic(topic string) bool {
	_, ok := dealTopics[topic]
	return ok
}

// DealInitialized carries the full terms of a newly created deal.
type DealInitialized struct {
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
}

type DealFunded struct {
	Seller string `json:"seller"`
	Amount uint64 `json:"amount"`
}

type DealSettled struct {
	Buyer         string `json:"buyer"`
	Seller        string `json:"seller"`
	BaseToBuyer   uint64 `json:"base_to_buyer"`
	QuoteToSeller uint64 `json:"quote_to_seller"`
	BuyerFee      uint64 `json:"buyer_fee"`
	SellerFee     uint64 `json:"seller_fee"`
}

// DealCancelled is emitted both when the seller cancels a deal and when a
// funded deal is reclaimed after expiry.
type DealCancelled struct {
	Seller   string `json:"seller"`
	Refunded uint64 `json:"refunded"`
}

// DealEvent is the record of a committed deal transition. Exactly one of the
// payload fields is set, depending on Topic.
type DealEvent struct {
	Sequence    uint64           `json:"sequence"`
	Topic       string           `json:"topic"`
	DealID      DealID           `json:"deal_id"`
	Timestamp   int64            `json:"timestamp"`
	Initialized *DealInitialized `json:"initialized,omitempty"`
	Funded      *DealFunded      `json:"funded,omitempty"`
	Settled     *DealSettled     `json:"settled,omitempty"`
	Cancelled   *DealCancelled   `json:"cancelled,omitempty"`
}

func NewDealInitializedEvent(d *Deal, timestamp int64) *DealEvent {
	return &DealEvent{
		Topic:     DealInitializedTopic,
		DealID:    d.ID,
		Timestamp: timestamp,
		Initialized: &DealInitialized{
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
		},
	}
}

func NewDealFundedEvent(d *Deal, timestamp int64) *DealEvent {
	return &DealEvent{
		Topic:     DealFundedTopic,
		DealID:    d.ID,
		Timestamp: timestamp,
		Funded:    &DealFunded{d.Seller, d.BaseAmount},
	}
}

func NewDealSettledEvent(
	d *Deal, s *Settlement, timestamp int64,
) *DealEvent {
	return &DealEvent{
		Topic:     DealSettledTopic,
		DealID:    d.ID,
		Timestamp: timestamp,
		Settled: &DealSettled{
			Buyer:         d.Buyer,
			Seller:        d.Seller,
			BaseToBuyer:   s.BaseToBuyer,
			QuoteToSeller: s.QuoteToSeller,
			BuyerFee:      s.BuyerFee,
			SellerFee:     s.SellerFee,
		},
	}
}

func NewDealCancelledEvent(
	d *Deal, refunded uint64, timestamp int64,
) *DealEvent {
	return &DealEvent{
		Topic:     DealCancelledTopic,
		DealID:    d.ID,
		Timestamp: timestamp,
		Cancelled: &DealCancelled{d.Seller, refunded},
	}
}
