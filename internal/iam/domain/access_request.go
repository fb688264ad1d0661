package domain

// AccessRequest is the ephemeral, per-call input to the policy evaluator.
type AccessRequest struct {
	// CallerIdentity is the caller's verified identity, or nil when no
	// identity has been issued.
	CallerIdentity *Identity
	// Action names the operation the caller wants to perform
	// (e.g. "process_refund", "market_operations").
	Action string
	// Context carries contextual attributes available for condition
	// evaluation (e.g. department, trust_domain, refund_amount, pii_access).
	// Attributes supplied here take precedence over values derived from the
	// caller's identity.
	Context map[string]any
}

// TrustDomain resolves the caller's declared trust domain: the context
// attribute when supplied, otherwise the identity's trust domain. Returns
// false when neither source provides a string value.
func (r *AccessRequest) TrustDomain() (string, bool) {
	if r.Context != nil {
		if v, ok := r.Context[TrustDomainAttribute]; ok {
			s, isString := v.(string)
			return s, isString
		}
	}
	if r.CallerIdentity != nil {
		return r.CallerIdentity.TrustDomain, true
	}
	return "", false
}

// Attribute looks up a context attribute by name.
func (r *AccessRequest) Attribute(name string) (any, bool) {
	// The trust domain attribute falls back to the identity, matching the
	// resolution used for the dedicated trust-domain condition.
	if name == TrustDomainAttribute {
		v, ok := r.TrustDomain()
		if !ok {
			return nil, false
		}
		return v, true
	}
	if r.Context == nil {
		return nil, false
	}
	v, ok := r.Context[name]
	return v, ok
}
