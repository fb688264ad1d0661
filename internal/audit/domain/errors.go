package domain

import (
	"github.com/asthalabs/shopperai/internal/errors"
)

// Decision audit trail errors.
var (
	// ErrRecordNotFound indicates a decision record with the specified ID was not found.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "decision record not found")

	// ErrSignatureInvalid indicates a decision record signature failed verification.
	ErrSignatureInvalid = errors.New("decision record signature is invalid")
)
