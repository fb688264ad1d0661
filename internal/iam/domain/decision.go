package domain

// Outcome is the category of an access decision. Callers branch on this tag;
// the display categories exist only as a compatibility/display layer.
type Outcome string

const (
	// OutcomeAllowed grants the request.
	OutcomeAllowed Outcome = "allowed"

	// OutcomeDeniedUnauthorized denies because the caller presented no
	// identity at all. Never produced for a present-but-unauthorized caller.
	OutcomeDeniedUnauthorized Outcome = "denied_unauthorized"

	// OutcomeDeniedPolicyViolation denies because the caller's identity,
	// action, or context fails the target's policy.
	OutcomeDeniedPolicyViolation Outcome = "denied_policy_violation"
)

// Display categories retained verbatim from the reference system. These are
// presentation strings; programmatic discrimination uses Outcome.
const (
	CategoryAllowed         = "Allowed"
	CategoryUnauthorized    = "Unauthorized access"
	CategoryPolicyViolation = "Policy violation"
)

// ReasonNoIdentity is the reason attached to every unauthorized denial.
const ReasonNoIdentity = "no identity has been issued to this agent"

// Decision is the evaluator's verdict for a single access request.
// Decisions are values: evaluating the same (request, policy) pair twice
// yields identical decisions.
type Decision struct {
	// Outcome is the machine-matchable category.
	Outcome Outcome
	// Reason is a human-readable explanation naming the check that failed
	// (or confirming the grant).
	Reason string
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllowed
}

// Category returns the caller-visible category string for the decision.
func (d Decision) Category() string {
	switch d.Outcome {
	case OutcomeAllowed:
		return CategoryAllowed
	case OutcomeDeniedUnauthorized:
		return CategoryUnauthorized
	default:
		return CategoryPolicyViolation
	}
}

// Allow builds an allowing decision.
func Allow(reason string) Decision {
	return Decision{Outcome: OutcomeAllowed, Reason: reason}
}

// DenyUnauthorized builds the denial used when no identity was presented.
func DenyUnauthorized() Decision {
	return Decision{Outcome: OutcomeDeniedUnauthorized, Reason: ReasonNoIdentity}
}

// DenyPolicyViolation builds a policy-violation denial with the given reason.
func DenyPolicyViolation(reason string) Decision {
	return Decision{Outcome: OutcomeDeniedPolicyViolation, Reason: reason}
}
