// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
	customValidation "github.com/asthalabs/shopperai/internal/validation"
)

// CallerIdentity carries the caller's identity claims on the wire. A request
// without a caller block is treated as coming from an agent with no issued
// identity.
type CallerIdentity struct {
	AgentID     string `json:"agent_id"`
	TrustDomain string `json:"trust_domain"`
}

// Validate checks if the caller identity is valid. The trust domain is not
// required here: an identity with an empty trust domain is structurally valid
// and gets denied by the policy evaluation, not rejected as malformed input.
func (i *CallerIdentity) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.AgentID,
			validation.Required,
			customValidation.AgentID,
			validation.Length(1, 255),
		),
		validation.Field(&i.TrustDomain,
			customValidation.TrustDomain,
			validation.Length(1, 255),
		),
	)
}

// ConnectRequest contains the parameters for connecting to a guarded agent.
type ConnectRequest struct {
	Caller  *CallerIdentity `json:"caller"`
	Action  string          `json:"action"`
	Payload map[string]any  `json:"payload"`
}

// Validate checks if the connect request is valid. The caller block is
// optional; when present it must be well-formed.
func (r *ConnectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Action,
			validation.Required,
			customValidation.ActionName,
			validation.Length(1, 255),
		),
		validation.Field(&r.Caller),
	)
}

// Identity converts the wire caller block to a domain identity. Returns nil
// when no caller block was supplied.
func (r *ConnectRequest) Identity() *iamDomain.Identity {
	if r.Caller == nil {
		return nil
	}
	return iamDomain.NewIdentity(r.Caller.AgentID, r.Caller.TrustDomain)
}

// EvaluateRequest contains the parameters for a dry-run access evaluation.
type EvaluateRequest struct {
	TargetAgentID string          `json:"target_agent_id"`
	Caller        *CallerIdentity `json:"caller"`
	Action        string          `json:"action"`
	Context       map[string]any  `json:"context"`
}

// Validate checks if the evaluate request is valid.
func (r *EvaluateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TargetAgentID,
			validation.Required,
			customValidation.AgentID,
			validation.Length(1, 255),
		),
		validation.Field(&r.Action,
			validation.Required,
			customValidation.ActionName,
			validation.Length(1, 255),
		),
		validation.Field(&r.Caller),
	)
}

// Identity converts the wire caller block to a domain identity. Returns nil
// when no caller block was supplied.
func (r *EvaluateRequest) Identity() *iamDomain.Identity {
	if r.Caller == nil {
		return nil
	}
	return iamDomain.NewIdentity(r.Caller.AgentID, r.Caller.TrustDomain)
}
