package domain

import (
	"github.com/asthalabs/shopperai/internal/errors"
)

// Guarded endpoint rejection errors. The two rejection categories are
// distinct sentinels so callers can programmatically tell an identity
// problem from a policy denial.
var (
	// ErrUnauthorizedAccess indicates the caller presented no identity.
	ErrUnauthorizedAccess = errors.Wrap(errors.ErrUnauthorized, "unauthorized access")

	// ErrPolicyViolation indicates an identified caller was denied by the
	// target agent's access policy.
	ErrPolicyViolation = errors.Wrap(errors.ErrPolicyViolation, "policy violation")

	// ErrUnsupportedAction indicates the action has no registered operation
	// on the target agent.
	ErrUnsupportedAction = errors.Wrap(errors.ErrNotFound, "unsupported action")
)
