package usecase

import (
	"context"
	"time"

	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
	"github.com/asthalabs/shopperai/internal/metrics"
)

// accessUseCaseWithMetrics decorates AccessUseCase with metrics instrumentation.
type accessUseCaseWithMetrics struct {
	next    AccessUseCase
	metrics metrics.BusinessMetrics
}

// NewAccessUseCaseWithMetrics wraps an AccessUseCase with metrics recording.
func NewAccessUseCaseWithMetrics(useCase AccessUseCase, m metrics.BusinessMetrics) AccessUseCase {
	return &accessUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authorize records metrics for access authorization operations. The status
// label carries the decision outcome so allow/deny rates are visible per
// category, with "error" reserved for operator faults.
func (a *accessUseCaseWithMetrics) Authorize(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
) (iamDomain.Decision, error) {
	start := time.Now()
	decision, err := a.next.Authorize(ctx, targetAgentID, request)

	status := string(decision.Outcome)
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "iam", "authorize", status)
	a.metrics.RecordDuration(ctx, "iam", "authorize", time.Since(start), status)

	return decision, err
}

// Evaluate records metrics for dry-run evaluations.
func (a *accessUseCaseWithMetrics) Evaluate(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
) (iamDomain.Decision, error) {
	start := time.Now()
	decision, err := a.next.Evaluate(ctx, targetAgentID, request)

	status := string(decision.Outcome)
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "iam", "evaluate", status)
	a.metrics.RecordDuration(ctx, "iam", "evaluate", time.Since(start), status)

	return decision, err
}
