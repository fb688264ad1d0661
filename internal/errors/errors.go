// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the caller presented no verified identity.
	// This is categorically different from ErrPolicyViolation: the only remedy
	// is obtaining an identity, not adjusting policy or request attributes.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPolicyViolation indicates the caller has an identity but the access
	// policy attached to the target agent does not permit the requested action.
	ErrPolicyViolation = errors.New("policy violation")

	// ErrMalformedPolicy indicates the policy document attached to a guarded
	// agent is structurally invalid (missing required fields or unknown
	// condition operator). This is an operator fault, not a caller fault,
	// and always results in denial (fail-closed).
	ErrMalformedPolicy = errors.New("malformed policy")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
