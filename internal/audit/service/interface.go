// Package service provides technical services for the decision audit trail.
package service

import (
	auditDomain "github.com/asthalabs/shopperai/internal/audit/domain"
)

// RecordSigner signs and verifies decision records so tampering with the
// stored audit trail is detectable. Implementations must derive a dedicated
// signing key from the provided key material rather than using it directly.
type RecordSigner interface {
	// Sign generates a signature over the record's canonical form.
	// The Signature field of the record itself is not included.
	Sign(key []byte, record *auditDomain.DecisionRecord) ([]byte, error)

	// Verify checks the record's Signature field against its canonical form.
	// Returns nil if valid, ErrSignatureInvalid if tampered or invalid.
	Verify(key []byte, record *auditDomain.DecisionRecord) error
}
