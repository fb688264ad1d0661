// Package usecase implements the payment agent's sensitive operations.
package usecase

import (
	"context"

	agentService "github.com/asthalabs/shopperai/internal/agent/service"
)

// Payment agent actions, as they appear in policy documents.
const (
	ActionCreatePayment  = "create_payment"
	ActionCapturePayment = "capture_payment"
	ActionProcessRefund  = "process_refund"
	ActionGetOrder       = "get_order"
)

// PaymentUseCase exposes the payment operations wired behind the guarded
// channel. Each method corresponds to one policy action; none of them checks
// access itself; that is the channel's job, strictly before dispatch.
type PaymentUseCase interface {
	// CreatePayment creates a payment order.
	// Payload: amount (required), currency (default "USD"), description.
	CreatePayment(ctx context.Context, payload map[string]any) (map[string]any, error)

	// CapturePayment captures an approved order. Payload: order_id (required).
	CapturePayment(ctx context.Context, payload map[string]any) (map[string]any, error)

	// ProcessRefund refunds a captured payment.
	// Payload: capture_id (required), amount, currency.
	ProcessRefund(ctx context.Context, payload map[string]any) (map[string]any, error)

	// GetOrder retrieves order details. Payload: order_id (required).
	GetOrder(ctx context.Context, payload map[string]any) (map[string]any, error)

	// Operations maps policy actions to channel operations.
	Operations() map[string]agentService.Operation
}
