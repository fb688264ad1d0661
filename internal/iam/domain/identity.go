// Package domain defines the identity and access management domain models.
//
// It models verified agent identities, declarative access policy documents
// attached to guarded agents, and the access request/decision pair exchanged
// with the policy evaluator. Identity absence is itself a meaningful state:
// an agent either holds a complete identity issued by the external identity
// service or holds none at all.
package domain

// Identity represents a caller's verified identity as issued by the external
// identity service. A nil *Identity means no identity has been issued; there
// is no partial-identity state. Identities are constructed once at agent
// initialization and never mutated.
type Identity struct {
	// AgentID is the caller's unique identifier (e.g. "paypal-agent").
	AgentID string
	// TrustDomain names the administrative domain the agent belongs to
	// (e.g. "astha.ai", "marketplace.com").
	TrustDomain string
}

// NewIdentity creates an immutable identity value for an agent.
func NewIdentity(agentID, trustDomain string) *Identity {
	return &Identity{
		AgentID:     agentID,
		TrustDomain: trustDomain,
	}
}
