// Package service implements the payment processor client used by the
// payment agent.
package service

import (
	"context"

	paymentDomain "github.com/asthalabs/shopperai/internal/payment/domain"
)

// PayPalClient talks to the PayPal REST API. The access-control layer never
// sees this interface; it is invoked only through the guarded channel after a
// decision has allowed the call.
type PayPalClient interface {
	// CreateOrder creates a new order with CAPTURE intent.
	CreateOrder(ctx context.Context, amount, currency, description string) (*paymentDomain.Order, error)

	// GetOrder retrieves the current state of an order.
	// Returns ErrOrderNotFound for unknown order IDs.
	GetOrder(ctx context.Context, orderID string) (*paymentDomain.Order, error)

	// CaptureOrder captures the payment for an approved order.
	CaptureOrder(ctx context.Context, orderID string) (*paymentDomain.Capture, error)

	// RefundCapture refunds a captured payment. An empty amount refunds the
	// full capture.
	RefundCapture(ctx context.Context, captureID, amount, currency string) (*paymentDomain.Refund, error)
}
