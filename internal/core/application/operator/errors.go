package operator

import "errors"

var (
	ErrMissingOwner  = errors.New("missing holding owner")
	ErrMissingAsset  = errors.New("missing holding asset")
	ErrInvalidCredit = errors.New("credit amount must be greater than zero")
)
