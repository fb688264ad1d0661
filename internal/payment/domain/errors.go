package domain

import (
	"github.com/asthalabs/shopperai/internal/errors"
)

// Payment processor errors.
var (
	// ErrOrderNotFound indicates the processor has no order with the given ID.
	ErrOrderNotFound = errors.Wrap(errors.ErrNotFound, "order not found")

	// ErrProcessorUnavailable indicates the payment processor rejected or
	// failed the request for reasons unrelated to the order itself.
	ErrProcessorUnavailable = errors.New("payment processor unavailable")
)
