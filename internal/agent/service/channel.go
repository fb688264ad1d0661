// Package service implements the guarded call surface of a sensitive agent.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	agentDomain "github.com/asthalabs/shopperai/internal/agent/domain"
	apperrors "github.com/asthalabs/shopperai/internal/errors"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
	iamUseCase "github.com/asthalabs/shopperai/internal/iam/usecase"
)

// Operation is a sensitive operation exposed by a guarded agent. It runs only
// after the access check has allowed the call.
type Operation func(ctx context.Context, payload map[string]any) (map[string]any, error)

// Channel is the single entry point into a guarded agent. Every connection
// runs the mandatory access check strictly before the requested operation;
// there is no bypass path and a rejected call performs no part of the
// operation.
//
// Channels are safe for unlimited concurrent use: per-call state lives on the
// stack and the registered operations map is frozen after construction.
type Channel struct {
	agentID    string
	access     iamUseCase.AccessUseCase
	operations map[string]Operation
	logger     *slog.Logger
}

// NewChannel creates a guarded channel for the given agent. The operations
// map is copied; later mutation of the argument does not affect the channel.
func NewChannel(
	agentID string,
	access iamUseCase.AccessUseCase,
	operations map[string]Operation,
	logger *slog.Logger,
) *Channel {
	ops := make(map[string]Operation, len(operations))
	for action, op := range operations {
		ops[action] = op
	}
	return &Channel{
		agentID:    agentID,
		access:     access,
		operations: ops,
		logger:     logger,
	}
}

// AgentID returns the guarded agent's identifier.
func (c *Channel) AgentID() string {
	return c.agentID
}

// Actions returns the actions with registered operations.
func (c *Channel) Actions() []string {
	actions := make([]string, 0, len(c.operations))
	for action := range c.operations {
		actions = append(actions, action)
	}
	return actions
}

// Connect runs the access check for the caller and, only when allowed,
// executes the requested operation.
//
// The rejection categories are distinguishable by error identity:
//   - no identity → ErrUnauthorizedAccess ("Unauthorized access")
//   - policy denial → ErrPolicyViolation with the evaluator's reason
//
// The extra attributes are merged into the access request context and are
// also handed to the operation as its payload.
func (c *Channel) Connect(
	ctx context.Context,
	caller *iamDomain.Identity,
	action string,
	payload map[string]any,
) (*agentDomain.Message, error) {
	request := &iamDomain.AccessRequest{
		CallerIdentity: caller,
		Action:         action,
		Context:        payload,
	}

	decision, err := c.access.Authorize(ctx, c.agentID, request)
	if err != nil {
		c.logger.Error("access check failed",
			slog.String("target_agent_id", c.agentID),
			slog.String("action", action),
			slog.Any("error", err))
	}

	if !decision.Allowed() {
		return nil, c.rejectionError(decision)
	}

	operation, ok := c.operations[action]
	if !ok {
		// The policy allowed an action this agent does not implement
		return nil, apperrors.Wrapf(agentDomain.ErrUnsupportedAction, "action %q", action)
	}

	result, err := operation(ctx, payload)
	if err != nil {
		return nil, apperrors.Wrapf(err, "action %q failed", action)
	}

	body := map[string]any{"status": agentDomain.StatusConnectionSuccessful}
	if result != nil {
		body["result"] = result
	}

	return &agentDomain.Message{
		ID:          uuid.Must(uuid.NewV7()),
		FromAgentID: c.agentID,
		Type:        agentDomain.TypeConnectionResult,
		Payload:     body,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// rejectionError maps a denial to its typed, distinguishable error.
func (c *Channel) rejectionError(decision iamDomain.Decision) error {
	if decision.Outcome == iamDomain.OutcomeDeniedUnauthorized {
		return agentDomain.ErrUnauthorizedAccess
	}
	if decision.Reason != "" {
		return apperrors.Wrap(agentDomain.ErrPolicyViolation, decision.Reason)
	}
	return agentDomain.ErrPolicyViolation
}
