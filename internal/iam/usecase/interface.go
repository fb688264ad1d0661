// Package usecase orchestrates access-control decisions for guarded agents.
package usecase

import (
	"context"

	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// PolicyRepository provides the policy document attached to a guarded agent.
// Implementations hand out immutable snapshots; any reload must swap in a
// fully-constructed document set atomically.
type PolicyRepository interface {
	// Get retrieves the policy document attached to the given agent.
	// Returns ErrPolicyNotFound when no document is attached.
	Get(ctx context.Context, agentID string) (*iamDomain.PolicyDocument, error)
}

// DecisionRecorder receives every access decision as a structured record for
// external audit consumption. Recording failures must never change the
// decision itself.
type DecisionRecorder interface {
	// Record emits a decision record for the given request/decision pair.
	Record(
		ctx context.Context,
		targetAgentID string,
		request *iamDomain.AccessRequest,
		decision iamDomain.Decision,
		metadata map[string]any,
	) error
}

// AccessUseCase decides whether a caller may invoke an action on a guarded
// agent. It is the single mandatory gate in front of every sensitive
// operation.
type AccessUseCase interface {
	// Authorize fetches the target agent's policy, evaluates the request
	// against it, and emits a decision record.
	//
	// Denials are regular Decision values. The returned error is non-nil
	// only for operator faults (missing or malformed policy documents);
	// even then the returned Decision is a denial so the caller fails
	// closed regardless of error handling.
	Authorize(
		ctx context.Context,
		targetAgentID string,
		request *iamDomain.AccessRequest,
	) (iamDomain.Decision, error)

	// Evaluate runs the same check as Authorize without granting anything:
	// callers use it to preview a decision. The emitted decision record is
	// flagged as a dry run so the audit trail distinguishes previews from
	// real access attempts.
	Evaluate(
		ctx context.Context,
		targetAgentID string,
		request *iamDomain.AccessRequest,
	) (iamDomain.Decision, error)
}
