package pubsub

import (
	"time"

	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/pkg/mathutil"
)

func getEventPayload(event domain.DealEvent) map[string]interface{} {
	payload := map[string]interface{}{
		"event":     event.Topic,
		"sequence":  event.Sequence,
		"deal_id":   event.DealID.String(),
		"timestamp": event.Timestamp,
		"date":      time.Unix(event.Timestamp, 0).UTC().Format(time.RFC3339),
	}

	switch {
	case event.Initialized != nil:
		payload["terms"] = getTermsPayload(event.Initialized)
	case event.Funded != nil:
		payload["seller"] = event.Funded.Seller
		payload["amount"] = event.Funded.Amount
	case event.Settled != nil:
		payload["buyer"] = event.Settled.Buyer
		payload["seller"] = event.Settled.Seller
		payload["base_to_buyer"] = event.Settled.BaseToBuyer
		payload["quote_to_seller"] = event.Settled.QuoteToSeller
		payload["fees"] = map[string]uint64{
			"buyer":  event.Settled.BuyerFee,
			"seller": event.Settled.SellerFee,
		}
	case event.Cancelled != nil:
		payload["seller"] = event.Cancelled.Seller
		payload["refunded"] = event.Cancelled.Refunded
	}
	return payload
}

func getTermsPayload(terms *domain.DealInitialized) map[string]interface{} {
	return map[string]interface{}{
		"seller": terms.Seller,
		"buyer":  terms.Buyer,
		"base": map[string]interface{}{
			"asset":  terms.BaseAsset,
			"amount": terms.BaseAmount,
		},
		"quote": map[string]interface{}{
			"asset":  terms.QuoteAsset,
			"amount": terms.QuoteAmount,
		},
		"expiry_time":   terms.ExpiryTime,
		"fee_recipient": terms.FeeRecipient,
		"fees": map[string]string{
			"buyer":  mathutil.FormatBasisPoint(uint64(terms.FeeBps)),
			"seller": mathutil.FormatBasisPoint(uint64(terms.SellerFeeBps)),
		},
	}
}
