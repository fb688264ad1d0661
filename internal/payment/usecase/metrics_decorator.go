package usecase

import (
	"context"
	"time"

	agentService "github.com/asthalabs/shopperai/internal/agent/service"
	"github.com/asthalabs/shopperai/internal/metrics"
)

// paymentUseCaseWithMetrics decorates PaymentUseCase with metrics instrumentation.
type paymentUseCaseWithMetrics struct {
	next    PaymentUseCase
	metrics metrics.BusinessMetrics
}

// NewPaymentUseCaseWithMetrics wraps a PaymentUseCase with metrics recording.
func NewPaymentUseCaseWithMetrics(useCase PaymentUseCase, m metrics.BusinessMetrics) PaymentUseCase {
	return &paymentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record wraps one operation call with count and duration metrics.
func (p *paymentUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	fn func() (map[string]any, error),
) (map[string]any, error) {
	start := time.Now()
	result, err := fn()

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "payment", operation, status)
	p.metrics.RecordDuration(ctx, "payment", operation, time.Since(start), status)

	return result, err
}

// CreatePayment records metrics for order creation.
func (p *paymentUseCaseWithMetrics) CreatePayment(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return p.record(ctx, "order_create", func() (map[string]any, error) {
		return p.next.CreatePayment(ctx, payload)
	})
}

// CapturePayment records metrics for order capture.
func (p *paymentUseCaseWithMetrics) CapturePayment(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return p.record(ctx, "order_capture", func() (map[string]any, error) {
		return p.next.CapturePayment(ctx, payload)
	})
}

// ProcessRefund records metrics for refunds.
func (p *paymentUseCaseWithMetrics) ProcessRefund(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return p.record(ctx, "refund", func() (map[string]any, error) {
		return p.next.ProcessRefund(ctx, payload)
	})
}

// GetOrder records metrics for order lookups.
func (p *paymentUseCaseWithMetrics) GetOrder(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return p.record(ctx, "order_get", func() (map[string]any, error) {
		return p.next.GetOrder(ctx, payload)
	})
}

// Operations maps policy actions to the decorated channel operations.
func (p *paymentUseCaseWithMetrics) Operations() map[string]agentService.Operation {
	return map[string]agentService.Operation{
		ActionCreatePayment:  p.CreatePayment,
		ActionCapturePayment: p.CapturePayment,
		ActionProcessRefund:  p.ProcessRefund,
		ActionGetOrder:       p.GetOrder,
	}
}
