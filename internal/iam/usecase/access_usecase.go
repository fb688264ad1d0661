package usecase

import (
	"context"
	"log/slog"

	apperrors "github.com/asthalabs/shopperai/internal/errors"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
	iamService "github.com/asthalabs/shopperai/internal/iam/service"
)

// accessUseCase implements AccessUseCase.
type accessUseCase struct {
	policyRepo PolicyRepository
	evaluator  iamService.Evaluator
	recorder   DecisionRecorder
	logger     *slog.Logger
}

// Authorize runs the mandatory access check for a guarded agent.
//
// The decision is computed before anything else happens: a recording failure
// is logged and reported but can never flip a deny into an allow (or the
// reverse). Operator faults (no policy attached, malformed policy) deny the
// caller and surface the underlying error so the agent operator can fix the
// configuration:
//   - Missing policy → denial + ErrPolicyNotFound
//   - Malformed policy → denial + ErrMalformedPolicy
func (a *accessUseCase) Authorize(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
) (iamDomain.Decision, error) {
	return a.decide(ctx, targetAgentID, request, nil)
}

// Evaluate previews a decision without granting anything. The decision record
// carries a dry_run marker so auditors can separate previews from real calls.
func (a *accessUseCase) Evaluate(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
) (iamDomain.Decision, error) {
	return a.decide(ctx, targetAgentID, request, map[string]any{"dry_run": true})
}

// decide computes and records a decision for the given request.
func (a *accessUseCase) decide(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
	metadata map[string]any,
) (iamDomain.Decision, error) {
	policy, err := a.policyRepo.Get(ctx, targetAgentID)
	if err != nil {
		// No attached policy guards nothing: deny and tell the operator
		decision := iamDomain.DenyPolicyViolation("no access policy is attached to the target agent")
		a.record(ctx, targetAgentID, request, decision, metadata)
		return decision, apperrors.Wrapf(err, "failed to load policy for agent %q", targetAgentID)
	}

	decision, evalErr := a.evaluator.Evaluate(request, policy)
	if evalErr != nil {
		a.logger.Error("policy evaluation failed",
			slog.String("target_agent_id", targetAgentID),
			slog.Any("error", evalErr))
	}

	a.record(ctx, targetAgentID, request, decision, metadata)

	return decision, evalErr
}

// record emits the decision record, logging (not propagating) failures.
func (a *accessUseCase) record(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
	decision iamDomain.Decision,
	metadata map[string]any,
) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Record(ctx, targetAgentID, request, decision, metadata); err != nil {
		a.logger.Error("failed to record access decision",
			slog.String("target_agent_id", targetAgentID),
			slog.String("outcome", string(decision.Outcome)),
			slog.Any("error", err))
	}
}

// NewAccessUseCase creates an AccessUseCase with the provided dependencies.
// The recorder may be nil when decision recording is disabled.
func NewAccessUseCase(
	policyRepo PolicyRepository,
	evaluator iamService.Evaluator,
	recorder DecisionRecorder,
	logger *slog.Logger,
) AccessUseCase {
	return &accessUseCase{
		policyRepo: policyRepo,
		evaluator:  evaluator,
		recorder:   recorder,
		logger:     logger,
	}
}
