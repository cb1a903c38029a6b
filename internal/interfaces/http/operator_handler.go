package httpinterface

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zeto-network/zeto-escrowd/internal/core/application/operator"
)

type operatorHandler struct {
	svc *operator.Service
}

func (h *operatorHandler) credit(w http.ResponseWriter, r *http.Request) {
	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %s", errInvalidPayload, err))
		return
	}
	holding, err := h.svc.Credit(r.Context(), req.Owner, req.Asset, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newHoldingView(holding))
}

func (h *operatorHandler) freeze(w http.ResponseWriter, r *http.Request) {
	h.setFrozen(w, r, true)
}

func (h *operatorHandler) unfreeze(w http.ResponseWriter, r *http.Request) {
	h.setFrozen(w, r, false)
}

func (h *operatorHandler) getHolding(w http.ResponseWriter, r *http.Request) {
	holding, err := h.svc.GetHolding(
		r.Context(), urlParam(r, "owner"), urlParam(r, "asset"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newHoldingView(holding))
}

func (h *operatorHandler) setFrozen(
	w http.ResponseWriter, r *http.Request, frozen bool,
) {
	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %s", errInvalidPayload, err))
		return
	}

	var err error
	if frozen {
		err = h.svc.Freeze(r.Context(), req.Owner, req.Asset)
	} else {
		err = h.svc.Unfreeze(r.Context(), req.Owner, req.Asset)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	holding, err := h.svc.GetHolding(r.Context(), req.Owner, req.Asset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newHoldingView(holding))
}

func (h *operatorHandler) addWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %s", errInvalidPayload, err))
		return
	}
	id, err := h.svc.AddWebhook(r.Context(), req.Topic, req.Endpoint, req.Secret)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %s", errInvalidPayload, err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *operatorHandler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.svc.ListWebhooks(r.Context(), r.URL.Query().Get("topic"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %s", errInvalidPayload, err))
		return
	}
	writeJSON(w, http.StatusOK, hooks)
}

func (h *operatorHandler) removeWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveWebhook(r.Context(), urlParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
