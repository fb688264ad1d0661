// Package repository provides policy document sources for guarded agents.
//
// Policies are static per-agent JSON documents: there is no distributed
// policy storage and no multi-tenant management. The repositories here only
// load and hand out immutable snapshots.
package repository

import (
	"context"
	"sync"

	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// MemoryPolicyRepository holds policy documents in memory, keyed by guarded
// agent ID. Used for tests and for embedding agents in-process.
type MemoryPolicyRepository struct {
	mu       sync.RWMutex
	policies map[string]*iamDomain.PolicyDocument
}

// NewMemoryPolicyRepository creates an empty in-memory policy repository.
func NewMemoryPolicyRepository() *MemoryPolicyRepository {
	return &MemoryPolicyRepository{
		policies: make(map[string]*iamDomain.PolicyDocument),
	}
}

// Set attaches a policy document to a guarded agent, replacing any previous
// document atomically.
func (m *MemoryPolicyRepository) Set(agentID string, policy *iamDomain.PolicyDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[agentID] = policy
}

// Get returns the policy document attached to the given agent.
// Returns ErrPolicyNotFound when no document is attached.
func (m *MemoryPolicyRepository) Get(ctx context.Context, agentID string) (*iamDomain.PolicyDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	policy, ok := m.policies[agentID]
	if !ok {
		return nil, iamDomain.ErrPolicyNotFound
	}
	return policy, nil
}
