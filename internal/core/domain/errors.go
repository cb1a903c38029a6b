package domain

import (
	"errors"

	"github.com/zeto-network/zeto-escrowd/pkg/mathutil"
)

var (
	// ErrExpiryInPast is returned when creating a deal whose expiry is not
	// later than the current time.
	ErrExpiryInPast = errors.New("expiry time must be in the future")
	// ErrInvalidAmount is returned when creating a deal with a zero amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidStatus is returned when the operation is not allowed from the
	// current status of the deal.
	ErrInvalidStatus = errors.New("invalid deal status for this operation")
	// ErrUnauthorized is returned when the caller is not the party expected
	// by the operation.
	ErrUnauthorized = errors.New("caller is not the expected party")
	// ErrDealExpired is returned when settling a deal at or after its expiry.
	ErrDealExpired = errors.New("deal has expired")
	// ErrNotExpired is returned when reclaiming a deal before its expiry.
	ErrNotExpired = errors.New("deal has not expired yet")
	// ErrOverflow is returned when checked arithmetic would wrap around.
	ErrOverflow = mathutil.ErrOverflow
	// ErrDealAlreadyExists ...
	ErrDealAlreadyExists = errors.New("deal already exists")
	// ErrDealNotFound ...
	ErrDealNotFound = errors.New("deal not found")
	// ErrMissingIdentity is returned when any of the parties, assets or fee
	// recipient of a deal is empty.
	ErrMissingIdentity = errors.New("parties, assets and fee recipient must not be empty")
	// ErrInvalidDealID ...
	ErrInvalidDealID = errors.New("deal id must be 32 bytes")
	// ErrFeeBpsOutOfRange ...
	ErrFeeBpsOutOfRange = errors.New("fee basis points must be in range [0, 10000]")
	// ErrWebhookNotFound ...
	ErrWebhookNotFound = errors.New("webhook not found")
)
