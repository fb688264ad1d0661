package service

import (
	"encoding/json"
	"fmt"

	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// evaluator implements Evaluator. It holds no state; the zero value is usable
// but NewEvaluator is the supported constructor.
type evaluator struct{}

// NewEvaluator creates the policy evaluator.
func NewEvaluator() Evaluator {
	return &evaluator{}
}

// Evaluate runs the access decision algorithm:
//
//  1. Identity presence (highest priority). A caller with no identity is
//     denied as unauthorized before any other check runs; missing identity
//     is categorically different from a present-but-unauthorized one.
//  2. Structural validation of the policy document (malformed → error + deny).
//  3. Action match against the statement's action list ("*" matches all).
//  4. Trust-domain condition (case-sensitive exact match).
//  5. Every remaining condition, conjunctively.
//
// Access is granted only when the statement's effect is Allow, the action
// matches, and all conditions hold. Any other combination denies: there is
// no implicit allow.
func (e *evaluator) Evaluate(
	request *iamDomain.AccessRequest,
	policy *iamDomain.PolicyDocument,
) (iamDomain.Decision, error) {
	// Identity presence check
	if request == nil || request.CallerIdentity == nil {
		return iamDomain.DenyUnauthorized(), nil
	}

	// Structural validation (fail-closed on malformed configuration)
	if err := policy.Validate(); err != nil {
		return iamDomain.DenyPolicyViolation("access policy could not be evaluated"), err
	}

	statement := &policy.Statement

	// Action match
	actionMatches := statement.MatchesAction(request.Action)
	if statement.Effect == iamDomain.EffectDeny {
		if actionMatches {
			return iamDomain.DenyPolicyViolation(
				fmt.Sprintf("action %q is denied by statement %q", request.Action, statement.Sid),
			), nil
		}
		// A lone Deny statement never grants anything
		return iamDomain.DenyPolicyViolation(
			fmt.Sprintf("action %q is not permitted by the access policy", request.Action),
		), nil
	}
	if !actionMatches {
		return iamDomain.DenyPolicyViolation(
			fmt.Sprintf("action %q is not permitted by the access policy", request.Action),
		), nil
	}

	// Trust-domain condition
	if requiredDomain, ok := statement.RequiredTrustDomain(); ok {
		actualDomain, _ := request.TrustDomain()
		if !MatchTrustDomain(requiredDomain, actualDomain) {
			return iamDomain.DenyPolicyViolation(
				fmt.Sprintf("trust domain %q does not match required domain %q", actualDomain, requiredDomain),
			), nil
		}
	}

	// Remaining conditions, all of which must hold
	if decision, ok := e.evaluateConditions(request, statement.Conditions); !ok {
		return decision, nil
	}

	return iamDomain.Allow(
		fmt.Sprintf("action %q allowed by statement %q", request.Action, statement.Sid),
	), nil
}

// evaluateConditions checks every condition operator except the trust-domain
// StringEquals entry (already checked). Returns ok=false with the denial
// naming the first failing condition.
func (e *evaluator) evaluateConditions(
	request *iamDomain.AccessRequest,
	conditions *iamDomain.Conditions,
) (iamDomain.Decision, bool) {
	// Absent conditions are vacuously satisfied
	if conditions.IsEmpty() {
		return iamDomain.Decision{}, true
	}

	for attr, required := range conditions.StringEquals {
		if attr == iamDomain.TrustDomainAttribute {
			continue
		}
		value, ok := request.Attribute(attr)
		if !ok {
			return conditionFailed("StringEquals", attr), false
		}
		s, isString := value.(string)
		if !isString || s != required {
			return conditionFailed("StringEquals", attr), false
		}
	}

	for attr, bound := range conditions.NumberLessThan {
		value, ok := request.Attribute(attr)
		if !ok {
			return conditionFailed("NumberLessThan", attr), false
		}
		// Absent or non-numeric values fail the condition rather than
		// panicking or passing
		n, numeric := toNumber(value)
		if !numeric || n >= bound {
			return conditionFailed("NumberLessThan", attr), false
		}
	}

	for attr, required := range conditions.BoolEquals {
		value, ok := request.Attribute(attr)
		if !ok {
			return conditionFailed("BoolEquals", attr), false
		}
		b, isBool := value.(bool)
		if !isBool || b != required {
			return conditionFailed("BoolEquals", attr), false
		}
	}

	for attr, mustBeAbsent := range conditions.Null {
		present := e.attributePresent(request, attr)
		if present == mustBeAbsent {
			return conditionFailed("Null", attr), false
		}
	}

	return iamDomain.Decision{}, true
}

// attributePresent reports whether the named attribute has a value for this
// request. The "identity" attribute is derived from identity presence so that
// deny-all policies for identity-less agents stay structurally evaluable.
func (e *evaluator) attributePresent(request *iamDomain.AccessRequest, attr string) bool {
	if attr == "identity" {
		return request.CallerIdentity != nil
	}
	value, ok := request.Attribute(attr)
	return ok && value != nil
}

// toNumber coerces the numeric types a JSON or in-process context may carry.
// Strings are not coerced: a non-numeric context value must fail the
// condition, not be guessed at.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// conditionFailed builds the denial for a failing condition, naming the
// operator and attribute so operators can locate the rule.
func conditionFailed(operator, attr string) iamDomain.Decision {
	return iamDomain.DenyPolicyViolation(
		fmt.Sprintf("condition %s on %q failed", operator, attr),
	)
}
