package usecase

import (
	"context"
	"time"

	auditDomain "github.com/asthalabs/shopperai/internal/audit/domain"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
	"github.com/asthalabs/shopperai/internal/metrics"
)

// decisionLogUseCaseWithMetrics decorates DecisionLogUseCase with metrics instrumentation.
type decisionLogUseCaseWithMetrics struct {
	next    DecisionLogUseCase
	metrics metrics.BusinessMetrics
}

// NewDecisionLogUseCaseWithMetrics wraps a DecisionLogUseCase with metrics recording.
func NewDecisionLogUseCaseWithMetrics(useCase DecisionLogUseCase, m metrics.BusinessMetrics) DecisionLogUseCase {
	return &decisionLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for decision record creation.
func (d *decisionLogUseCaseWithMetrics) Record(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
	decision iamDomain.Decision,
	metadata map[string]any,
) error {
	start := time.Now()
	err := d.next.Record(ctx, targetAgentID, request, decision, metadata)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "audit", "decision_record_create", status)
	d.metrics.RecordDuration(ctx, "audit", "decision_record_create", time.Since(start), status)

	return err
}

// List records metrics for decision record listing.
func (d *decisionLogUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.DecisionRecord, error) {
	start := time.Now()
	records, err := d.next.List(ctx, offset, limit, createdAtFrom, createdAtTo)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "audit", "decision_record_list", status)
	d.metrics.RecordDuration(ctx, "audit", "decision_record_list", time.Since(start), status)

	return records, err
}

// DeleteOlderThan records metrics for decision record pruning.
func (d *decisionLogUseCaseWithMetrics) DeleteOlderThan(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := d.next.DeleteOlderThan(ctx, days, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "audit", "decision_record_clean", status)
	d.metrics.RecordDuration(ctx, "audit", "decision_record_clean", time.Since(start), status)

	return count, err
}

// VerifyBatch records metrics for batch signature verification.
func (d *decisionLogUseCaseWithMetrics) VerifyBatch(
	ctx context.Context,
	start, end time.Time,
) (*VerificationReport, error) {
	began := time.Now()
	report, err := d.next.VerifyBatch(ctx, start, end)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "audit", "decision_record_verify", status)
	d.metrics.RecordDuration(ctx, "audit", "decision_record_verify", time.Since(began), status)

	return report, err
}
