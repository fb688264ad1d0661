package domain

import (
	"github.com/asthalabs/shopperai/internal/errors"
)

// Identity and access management errors.
var (
	// ErrPolicyNotFound indicates no policy document is attached to the
	// requested guarded agent. Treated as fail-closed by callers.
	ErrPolicyNotFound = errors.Wrap(errors.ErrNotFound, "policy not found")
)
