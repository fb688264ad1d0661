package usecase

import (
	"context"
	"fmt"
	"time"

	agentService "github.com/asthalabs/shopperai/internal/agent/service"
	apperrors "github.com/asthalabs/shopperai/internal/errors"
	paymentDomain "github.com/asthalabs/shopperai/internal/payment/domain"
	paymentService "github.com/asthalabs/shopperai/internal/payment/service"
)

// paymentUseCase implements PaymentUseCase on top of the PayPal client.
type paymentUseCase struct {
	client paymentService.PayPalClient
}

// NewPaymentUseCase creates a PaymentUseCase backed by the given processor client.
func NewPaymentUseCase(client paymentService.PayPalClient) PaymentUseCase {
	return &paymentUseCase{client: client}
}

// stringField extracts a required string field from the payload.
func stringField(payload map[string]any, name string) (string, error) {
	value, ok := payload[name].(string)
	if !ok || value == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("%s is required", name))
	}
	return value, nil
}

// optionalStringField extracts an optional string field, returning fallback
// when absent.
func optionalStringField(payload map[string]any, name, fallback string) string {
	if value, ok := payload[name].(string); ok && value != "" {
		return value
	}
	return fallback
}

// CreatePayment creates a payment order and stamps the result with a
// transaction reference.
func (p *paymentUseCase) CreatePayment(ctx context.Context, payload map[string]any) (map[string]any, error) {
	amount, err := stringField(payload, "amount")
	if err != nil {
		return nil, err
	}
	currency := optionalStringField(payload, "currency", "USD")
	description := optionalStringField(payload, "description", "")

	order, err := p.client.CreateOrder(ctx, amount, currency, description)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create payment order")
	}

	return map[string]any{
		"transaction_id":  paymentDomain.NewTransactionID(time.Now()),
		"paypal_order_id": order.ID,
		"status":          order.Status,
		"amount":          order.Amount,
		"currency":        order.Currency,
		"description":     order.Description,
	}, nil
}

// CapturePayment captures an approved order.
func (p *paymentUseCase) CapturePayment(ctx context.Context, payload map[string]any) (map[string]any, error) {
	orderID, err := stringField(payload, "order_id")
	if err != nil {
		return nil, err
	}

	capture, err := p.client.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to capture payment")
	}

	return map[string]any{
		"transaction_id":  paymentDomain.NewTransactionID(time.Now()),
		"paypal_order_id": capture.OrderID,
		"capture_id":      capture.ID,
		"status":          capture.Status,
		"amount":          capture.Amount,
		"currency":        capture.Currency,
	}, nil
}

// ProcessRefund refunds a captured payment.
func (p *paymentUseCase) ProcessRefund(ctx context.Context, payload map[string]any) (map[string]any, error) {
	captureID, err := stringField(payload, "capture_id")
	if err != nil {
		return nil, err
	}
	amount := optionalStringField(payload, "amount", "")
	currency := optionalStringField(payload, "currency", "USD")

	refund, err := p.client.RefundCapture(ctx, captureID, amount, currency)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to process refund")
	}

	return map[string]any{
		"transaction_id": paymentDomain.NewTransactionID(time.Now()),
		"refund_id":      refund.ID,
		"capture_id":     refund.CaptureID,
		"status":         refund.Status,
		"amount":         refund.Amount,
		"currency":       refund.Currency,
	}, nil
}

// GetOrder retrieves order details.
func (p *paymentUseCase) GetOrder(ctx context.Context, payload map[string]any) (map[string]any, error) {
	orderID, err := stringField(payload, "order_id")
	if err != nil {
		return nil, err
	}

	order, err := p.client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get order")
	}

	return map[string]any{
		"paypal_order_id": order.ID,
		"status":          order.Status,
		"amount":          order.Amount,
		"currency":        order.Currency,
		"description":     order.Description,
	}, nil
}

// Operations maps policy actions to channel operations.
func (p *paymentUseCase) Operations() map[string]agentService.Operation {
	return map[string]agentService.Operation{
		ActionCreatePayment:  p.CreatePayment,
		ActionCapturePayment: p.CapturePayment,
		ActionProcessRefund:  p.ProcessRefund,
		ActionGetOrder:       p.GetOrder,
	}
}
