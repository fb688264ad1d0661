package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessRequestTrustDomain(t *testing.T) {
	t.Run("Success_FromIdentity", func(t *testing.T) {
		request := &AccessRequest{
			CallerIdentity: NewIdentity("shopper-agent", "astha.ai"),
		}
		domain, ok := request.TrustDomain()
		require.True(t, ok)
		require.Equal(t, "astha.ai", domain)
	})

	t.Run("Success_ContextOverridesIdentity", func(t *testing.T) {
		request := &AccessRequest{
			CallerIdentity: NewIdentity("shopper-agent", "astha.ai"),
			Context:        map[string]any{TrustDomainAttribute: "marketplace.com"},
		}
		domain, ok := request.TrustDomain()
		require.True(t, ok)
		require.Equal(t, "marketplace.com", domain)
	})

	t.Run("Failure_NoSource", func(t *testing.T) {
		_, ok := (&AccessRequest{}).TrustDomain()
		require.False(t, ok)
	})

	t.Run("Failure_NonStringContextValue", func(t *testing.T) {
		request := &AccessRequest{
			CallerIdentity: NewIdentity("shopper-agent", "astha.ai"),
			Context:        map[string]any{TrustDomainAttribute: 42},
		}
		_, ok := request.TrustDomain()
		require.False(t, ok)
	})
}

func TestAccessRequestAttribute(t *testing.T) {
	request := &AccessRequest{
		CallerIdentity: NewIdentity("shopper-agent", "astha.ai"),
		Context:        map[string]any{"refund_amount": 42.5},
	}

	t.Run("Success_ContextAttribute", func(t *testing.T) {
		value, ok := request.Attribute("refund_amount")
		require.True(t, ok)
		require.Equal(t, 42.5, value)
	})

	t.Run("Success_TrustDomainFallsBackToIdentity", func(t *testing.T) {
		value, ok := request.Attribute(TrustDomainAttribute)
		require.True(t, ok)
		require.Equal(t, "astha.ai", value)
	})

	t.Run("Failure_UnknownAttribute", func(t *testing.T) {
		_, ok := request.Attribute("department")
		require.False(t, ok)
	})

	t.Run("Failure_NilContext", func(t *testing.T) {
		_, ok := (&AccessRequest{}).Attribute("refund_amount")
		require.False(t, ok)
	})
}

func TestDecision(t *testing.T) {
	t.Run("Success_Allow", func(t *testing.T) {
		decision := Allow("all conditions satisfied")
		require.True(t, decision.Allowed())
		require.Equal(t, CategoryAllowed, decision.Category())
	})

	t.Run("Success_DenyUnauthorized", func(t *testing.T) {
		decision := DenyUnauthorized()
		require.False(t, decision.Allowed())
		require.Equal(t, OutcomeDeniedUnauthorized, decision.Outcome)
		require.Equal(t, ReasonNoIdentity, decision.Reason)
		require.Equal(t, CategoryUnauthorized, decision.Category())
	})

	t.Run("Success_DenyPolicyViolation", func(t *testing.T) {
		decision := DenyPolicyViolation("trust domain mismatch")
		require.False(t, decision.Allowed())
		require.Equal(t, CategoryPolicyViolation, decision.Category())
	})
}
