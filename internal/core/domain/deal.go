package domain

import (
	"fmt"
	"strings"
)

const (
	// DefaultFeeBps is the protocol fee applied to the quote leg, paid by the
	// buyer (0.20%).
	DefaultFeeBps = 20
	// DefaultSellerFeeBps is the fee applied to the base leg, paid by the
	// seller. Disabled.
	DefaultSellerFeeBps = 0
	// MaxFeeBps is the basis points denominator, a fee cannot exceed 100%.
	MaxFeeBps = 10000
)

// DealStatus represents the lifecycle stages of a deal.
type DealStatus uint8

const (
	DealStatusInitialized DealStatus = iota
	DealStatusFunded
	DealStatusSettled
	DealStatusCancelled
)

var dealStatusToString = map[DealStatus]string{
	DealStatusInitialized: "INITIALIZED",
	DealStatusFunded:      "FUNDED",
	DealStatusSettled:     "SETTLED",
	DealStatusCancelled:   "CANCELLED",
}

func (s DealStatus) String() string {
	str, ok := dealStatusToString[s]
	if !ok {
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
	return str
}

// IsFinal returns whether no further operation is allowed from the status.
func (s DealStatus) IsFinal() bool {
	return s == DealStatusSettled || s == DealStatusCancelled
}

// DealStatusFromString parses the status from its string representation,
// case insensitive.
func DealStatusFromString(str string) (DealStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(str))
	for status, s := range dealStatusToString {
		if s == normalized {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown deal status %s", str)
}

// FeeSchedule holds the fee rates fixed into a deal at creation.
type FeeSchedule struct {
	BuyerFeeBps  uint16
	SellerFeeBps uint16
}

// DefaultFeeSchedule returns the protocol fee schedule.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{DefaultFeeBps, DefaultSellerFeeBps}
}

func (f FeeSchedule) Validate() error {
	if f.BuyerFeeBps > MaxFeeBps || f.SellerFeeBps > MaxFeeBps {
		return ErrFeeBpsOutOfRange
	}
	return nil
}

// DealTerms are the caller-supplied terms of a new deal.
type DealTerms struct {
	ID           DealID
	Seller       string
	Buyer        string
	BaseAsset    string
	QuoteAsset   string
	BaseAmount   uint64
	QuoteAmount  uint64
	ExpiryTime   int64
	FeeRecipient string
}

// Deal is the data structure representing a bilateral escrow between a seller
// of BaseAmount units of BaseAsset and a buyer paying QuoteAmount units of
// QuoteAsset.
type Deal struct {
	ID           DealID
	Seller       string
	Buyer        string
	BaseAsset    string
	QuoteAsset   string
	BaseAmount   uint64
	QuoteAmount  uint64
	ExpiryTime   int64
	FeeBps       uint16
	SellerFeeBps uint16
	FeeRecipient string
	Status       DealStatus
	CreatedAt    int64
	SettledAt    int64
	CancelledAt  int64
}

// NewDeal validates the given terms and returns a deal in Initialized status.
func NewDeal(terms DealTerms, fees FeeSchedule, now int64) (*Deal, error) {
	if terms.ID.IsZero() {
		return nil, ErrInvalidDealID
	}
	if terms.ExpiryTime <= now {
		return nil, ErrExpiryInPast
	}
	if terms.BaseAmount == 0 || terms.QuoteAmount == 0 {
		return nil, ErrInvalidAmount
	}
	if isBlank(terms.Seller) || isBlank(terms.Buyer) ||
		isBlank(terms.BaseAsset) || isBlank(terms.QuoteAsset) ||
		isBlank(terms.FeeRecipient) {
		return nil, ErrMissingIdentity
	}
	if err := fees.Validate(); err != nil {
		return nil, err
	}

	return &Deal{
		ID:           terms.ID,
		Seller:       terms.Seller,
		Buyer:        terms.Buyer,
		BaseAsset:    terms.BaseAsset,
		QuoteAsset:   terms.QuoteAsset,
		BaseAmount:   terms.BaseAmount,
		QuoteAmount:  terms.QuoteAmount,
		ExpiryTime:   terms.ExpiryTime,
		FeeBps:       fees.BuyerFeeBps,
		SellerFeeBps: fees.SellerFeeBps,
		FeeRecipient: terms.FeeRecipient,
		Status:       DealStatusInitialized,
		CreatedAt:    now,
	}, nil
}

// Fund brings an Initialized deal to the Funded status. Only the seller is
// allowed to fund the deal.
func (d *Deal) Fund(caller string) error {
	if d.Status != DealStatusInitialized {
		return ErrInvalidStatus
	}
	if caller != d.Seller {
		return ErrUnauthorized
	}

	d.Status = DealStatusFunded
	return nil
}

// Settle brings a Funded deal to the Settled status and returns the amounts
// to be moved between the parties. Only the buyer is allowed to settle the
// deal, and only strictly before its expiry.
func (d *Deal) Settle(caller string, now int64) (*Settlement, error) {
	if d.Status != DealStatusFunded {
		return nil, ErrInvalidStatus
	}
	if caller != d.Buyer {
		return nil, ErrUnauthorized
	}
	if d.IsExpired(now) {
		return nil, ErrDealExpired
	}

	settlement, err := d.SettlementPlan()
	if err != nil {
		return nil, err
	}

	d.Status = DealStatusSettled
	d.SettledAt = now
	return settlement, nil
}

// Cancel brings an Initialized or Funded deal to the Cancelled status and
// returns whether the vault must be refunded to the seller. Only the seller
// is allowed to cancel the deal.
func (d *Deal) Cancel(caller string, now int64) (bool, error) {
	if d.Status != DealStatusInitialized && d.Status != DealStatusFunded {
		return false, ErrInvalidStatus
	}
	if caller != d.Seller {
		return false, ErrUnauthorized
	}

	refund := d.IsFunded()
	d.Status = DealStatusCancelled
	d.CancelledAt = now
	return refund, nil
}

// Reclaim brings a Funded deal to the Cancelled status once its expiry is
// reached. Anyone is allowed to reclaim, funds always go back to the seller.
func (d *Deal) Reclaim(now int64) error {
	if d.Status != DealStatusFunded {
		return ErrInvalidStatus
	}
	if !d.IsExpired(now) {
		return ErrNotExpired
	}

	d.Status = DealStatusCancelled
	d.CancelledAt = now
	return nil
}

// IsExpired returns whether the expiry of the deal has been reached.
func (d *Deal) IsExpired(now int64) bool {
	return now >= d.ExpiryTime
}

// IsInitialized returns whether the deal is in Initialized status.
func (d *Deal) IsInitialized() bool {
	return d.Status == DealStatusInitialized
}

// IsFunded returns whether the deal is in Funded status.
func (d *Deal) IsFunded() bool {
	return d.Status == DealStatusFunded
}

// IsSettled returns whether the deal is in Settled status.
func (d *Deal) IsSettled() bool {
	return d.Status == DealStatusSettled
}

// IsCancelled returns whether the deal is in Cancelled status.
func (d *Deal) IsCancelled() bool {
	return d.Status == DealStatusCancelled
}

// Address returns the deterministic address of the deal.
func (d *Deal) Address() string {
	return d.ID.Address()
}

// VaultAddress returns the owner of the holding custodying the base asset.
func (d *Deal) VaultAddress() string {
	return d.ID.VaultAddress()
}

// VaultAuthority returns the authority allowed to move funds out of the
// vault of the deal.
func (d *Deal) VaultAuthority() Authority {
	return Authority{owner: d.VaultAddress(), custodial: true}
}

// IsParty returns whether the given identity is the seller or the buyer.
func (d *Deal) IsParty(identity string) bool {
	return identity == d.Seller || identity == d.Buyer
}

// Clone returns a copy of the deal.
func (d *Deal) Clone() *Deal {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}

func isBlank(str string) bool {
	return len(strings.TrimSpace(str)) <= 0
}
