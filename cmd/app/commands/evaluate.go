package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
	iamUseCase "github.com/asthalabs/shopperai/internal/iam/usecase"
)

// EvaluateInput holds the parameters for a dry-run access evaluation.
type EvaluateInput struct {
	TargetAgentID     string
	CallerAgentID     string
	CallerTrustDomain string
	Action            string
	ContextJSON       string
	Format            string
}

// RunEvaluate dry-runs an access decision against a guarded agent's policy
// and prints the decision. The evaluation is recorded to the decision audit
// trail flagged as a dry run; nothing is granted.
//
// An omitted caller evaluates the identity-less case: the decision will be an
// unauthorized denial regardless of policy content.
func RunEvaluate(
	ctx context.Context,
	accessUseCase iamUseCase.AccessUseCase,
	logger *slog.Logger,
	writer io.Writer,
	input EvaluateInput,
) error {
	if input.CallerAgentID != "" && input.CallerTrustDomain == "" {
		return fmt.Errorf("trust-domain is required when caller is set")
	}

	var caller *iamDomain.Identity
	if input.CallerAgentID != "" {
		caller = iamDomain.NewIdentity(input.CallerAgentID, input.CallerTrustDomain)
	}

	var requestContext map[string]any
	if input.ContextJSON != "" {
		if err := json.Unmarshal([]byte(input.ContextJSON), &requestContext); err != nil {
			return fmt.Errorf("invalid context JSON: %w", err)
		}
	}

	logger.Info("evaluating access request",
		slog.String("target_agent_id", input.TargetAgentID),
		slog.String("caller_agent_id", input.CallerAgentID),
		slog.String("action", input.Action),
	)

	request := &iamDomain.AccessRequest{
		CallerIdentity: caller,
		Action:         input.Action,
		Context:        requestContext,
	}

	decision, err := accessUseCase.Evaluate(ctx, input.TargetAgentID, request)
	if err != nil {
		// Operator faults still come with a denial; show both
		outputDecision(writer, decision, input.Format)
		return fmt.Errorf("evaluation fault: %w", err)
	}

	outputDecision(writer, decision, input.Format)
	return nil
}

// outputDecision prints the decision in the requested format.
func outputDecision(writer io.Writer, decision iamDomain.Decision, format string) {
	if format == "json" {
		result := map[string]interface{}{
			"allowed":  decision.Allowed(),
			"outcome":  string(decision.Outcome),
			"category": decision.Category(),
			"reason":   decision.Reason,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return
		}
		_, _ = fmt.Fprintln(writer, string(jsonBytes))
		return
	}

	_, _ = fmt.Fprintf(writer, "Decision: %s\n", decision.Category())
	_, _ = fmt.Fprintf(writer, "Outcome:  %s\n", decision.Outcome)
	if decision.Reason != "" {
		_, _ = fmt.Fprintf(writer, "Reason:   %s\n", decision.Reason)
	}
}
