// Package service implements policy evaluation for inter-agent access control.
//
// The evaluator is a pure decision function over immutable inputs: it never
// blocks, keeps no state, and is safe under unlimited concurrent invocation.
package service

import (
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// Evaluator decides whether an access request is permitted by a policy
// document attached to a guarded agent.
type Evaluator interface {
	// Evaluate returns the decision for the (request, policy) pair.
	//
	// The returned error is non-nil only for malformed policy documents
	// (an operator fault, wrapped with errors.ErrMalformedPolicy); normal
	// denials are regular Decision values, not errors. Even on error the
	// returned Decision is a denial, so callers that ignore the error
	// still fail closed.
	Evaluate(request *iamDomain.AccessRequest, policy *iamDomain.PolicyDocument) (iamDomain.Decision, error)
}
