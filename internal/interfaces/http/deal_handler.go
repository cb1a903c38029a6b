package httpinterface

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/zeto-network/zeto-escrowd/internal/core/application/escrow"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
)

type dealHandler struct {
	svc *escrow.Service
}

func (h *dealHandler) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(
		w, http.StatusOK, newInfoView(h.svc.FeeSchedule(), h.svc.FeeRecipient()),
	)
}

func (h *dealHandler) initDeal(w http.ResponseWriter, r *http.Request) {
	var req initDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %s", errInvalidPayload, err))
		return
	}
	id, err := parseDealID(req.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	deal, err := h.svc.InitializeDeal(r.Context(), escrow.InitDealArgs{
		ID:           id,
		Seller:       callerFromContext(r.Context()),
		Buyer:        req.Buyer,
		BaseAsset:    req.BaseAsset,
		QuoteAsset:   req.QuoteAsset,
		BaseAmount:   req.BaseAmount,
		QuoteAmount:  req.QuoteAmount,
		ExpiryTime:   req.ExpiryTime,
		FeeRecipient: req.FeeRecipient,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newDealView(deal))
}

func (h *dealHandler) fundDeal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.FundDeal)
}

func (h *dealHandler) settleDeal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.SettleDeal)
}

func (h *dealHandler) cancelDeal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.CancelDeal)
}

func (h *dealHandler) reclaimDeal(w http.ResponseWriter, r *http.Request) {
	id, err := parseDealID(urlParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	deal, err := h.svc.ReclaimExpiredDeal(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDealView(deal))
}

func (h *dealHandler) getDeal(w http.ResponseWriter, r *http.Request) {
	id, err := parseDealID(urlParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	deal, err := h.svc.GetDeal(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDealView(deal))
}

func (h *dealHandler) listDeals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := domain.DealFilter{Party: query.Get("party")}
	if s := query.Get("status"); s != "" {
		status, err := domain.DealStatusFromString(s)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %s", errInvalidPayload, err))
			return
		}
		filter.Status = &status
	}

	var page *domain.Page
	if query.Get("page") != "" || query.Get("page_size") != "" {
		number, _ := strconv.Atoi(query.Get("page"))
		size, _ := strconv.Atoi(query.Get("page_size"))
		p := domain.NewPage(number, size)
		page = &p
	}

	deals, err := h.svc.ListDeals(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDealViews(deals))
}

func (h *dealHandler) listDealEvents(w http.ResponseWriter, r *http.Request) {
	id, err := parseDealID(urlParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := h.svc.ListDealEvents(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *dealHandler) quoteSettlement(w http.ResponseWriter, r *http.Request) {
	id, err := parseDealID(urlParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	settlement, err := h.svc.QuoteSettlement(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlementView{
		BaseToBuyer:   settlement.BaseToBuyer,
		QuoteToSeller: settlement.QuoteToSeller,
		BuyerFee:      settlement.BuyerFee,
		SellerFee:     settlement.SellerFee,
	})
}

func (h *dealHandler) transition(
	w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id domain.DealID, caller string) (*domain.Deal, error),
) {
	id, err := parseDealID(urlParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	deal, err := op(r.Context(), id, callerFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDealView(deal))
}

// parseDealID accepts either the hex encoding of an id or a label.
func parseDealID(str string) (domain.DealID, error) {
	if len(str) == 2*domain.DealIDLength {
		if _, err := hex.DecodeString(str); err == nil {
			return domain.ParseDealID(str)
		}
	}
	if len(str) > domain.DealIDLength {
		return domain.DealID{}, domain.ErrInvalidDealID
	}
	return domain.DealIDFromString(str)
}
