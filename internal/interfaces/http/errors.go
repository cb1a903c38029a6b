package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/zeto-network/zeto-escrowd/internal/core/application/operator"
	"github.com/zeto-network/zeto-escrowd/internal/core/domain"
	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
)

var errInvalidPayload = errors.New("invalid payload")

var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrDealNotFound, http.StatusNotFound},
	{domain.ErrWebhookNotFound, http.StatusNotFound},
	{ports.ErrHoldingNotFound, http.StatusNotFound},

	{domain.ErrDealAlreadyExists, http.StatusConflict},
	{domain.ErrInvalidStatus, http.StatusConflict},
	{domain.ErrDealExpired, http.StatusConflict},
	{domain.ErrNotExpired, http.StatusConflict},

	{domain.ErrUnauthorized, http.StatusForbidden},
	{ports.ErrUnauthorizedSigner, http.StatusForbidden},

	{ports.ErrInsufficientFunds, http.StatusUnprocessableEntity},
	{ports.ErrFrozenAccount, http.StatusUnprocessableEntity},
	{ports.ErrHoldingNotEmpty, http.StatusUnprocessableEntity},

	{domain.ErrExpiryInPast, http.StatusBadRequest},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrMissingIdentity, http.StatusBadRequest},
	{domain.ErrInvalidDealID, http.StatusBadRequest},
	{domain.ErrFeeBpsOutOfRange, http.StatusBadRequest},
	{domain.ErrOverflow, http.StatusBadRequest},
	{ports.ErrInvalidTransfer, http.StatusBadRequest},
	{operator.ErrMissingOwner, http.StatusBadRequest},
	{operator.ErrMissingAsset, http.StatusBadRequest},
	{operator.ErrInvalidCredit, http.StatusBadRequest},
	{errInvalidPayload, http.StatusBadRequest},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Warn("http request failed")
	}
	writeJSONError(w, status, err)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
