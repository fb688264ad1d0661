// Package domain defines the entities for the decision audit trail.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DecisionRecord captures one access-control decision for compliance and
// security monitoring. Every evaluation produces a record, allows and denials
// alike, so access patterns and incidents can be reconstructed after the fact.
//
// The Signature field holds an HMAC over the record's canonical form so
// tampering with stored records is detectable.
type DecisionRecord struct {
	ID                uuid.UUID
	RequestID         string
	CallerAgentID     string
	CallerTrustDomain string
	TargetAgentID     string
	Action            string
	Outcome           string
	Reason            string
	Metadata          map[string]any
	Signature         []byte
	CreatedAt         time.Time
}
