package domain

import (
	"encoding/json"

	apperrors "github.com/asthalabs/shopperai/internal/errors"
)

// Effect determines whether a matching statement grants or refuses access.
type Effect string

const (
	// EffectAllow grants access when the statement's action and conditions match.
	EffectAllow Effect = "Allow"

	// EffectDeny refuses access when the statement's action matches.
	EffectDeny Effect = "Deny"
)

// ActionWildcard matches every action name in a statement's Action list.
const ActionWildcard = "*"

// TrustDomainAttribute is the condition/context attribute naming the
// caller's trust domain.
const TrustDomainAttribute = "trust_domain"

// Conditions is the closed set of condition operators a policy statement may
// carry. Every listed condition must hold for the statement to match; the
// operators form a tagged set so an unrecognized operator is a decode-time
// malformed-policy error, never a silently ignored key.
type Conditions struct {
	// StringEquals requires case-sensitive exact equality between a context
	// attribute and the required value (e.g. trust_domain, department).
	StringEquals map[string]string `json:"StringEquals,omitempty"`
	// NumberLessThan requires the numeric context attribute to be strictly
	// less than the given bound (e.g. refund_amount).
	NumberLessThan map[string]float64 `json:"NumberLessThan,omitempty"`
	// BoolEquals requires the boolean context attribute to equal the given
	// value (e.g. pii_access).
	BoolEquals map[string]bool `json:"BoolEquals,omitempty"`
	// Null requires the context attribute's absence (true) or presence
	// (false). The identity-is-null check is expressed through this operator.
	Null map[string]bool `json:"Null,omitempty"`
}

// conditionOperators is the set of recognized condition operator keys.
var conditionOperators = map[string]struct{}{
	"StringEquals":   {},
	"NumberLessThan": {},
	"BoolEquals":     {},
	"Null":           {},
}

// UnmarshalJSON decodes the condition block while rejecting unknown operator
// keys. A policy carrying an unrecognized operator is malformed: evaluating
// it as if the operator were absent could over-authorize.
func (c *Conditions) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return apperrors.Wrap(apperrors.ErrMalformedPolicy, "invalid condition block")
	}

	for key := range raw {
		if _, ok := conditionOperators[key]; !ok {
			return apperrors.Wrapf(apperrors.ErrMalformedPolicy, "unknown condition operator %q", key)
		}
	}

	type conditionsAlias Conditions
	var alias conditionsAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return apperrors.Wrap(apperrors.ErrMalformedPolicy, "invalid condition payload")
	}

	*c = Conditions(alias)
	return nil
}

// IsEmpty reports whether the condition block carries no operators at all.
func (c *Conditions) IsEmpty() bool {
	if c == nil {
		return true
	}
	return len(c.StringEquals) == 0 &&
		len(c.NumberLessThan) == 0 &&
		len(c.BoolEquals) == 0 &&
		len(c.Null) == 0
}

// Statement is the single all-or-nothing rule of a policy document. Every
// condition listed must hold for the statement's effect to apply; if any
// condition fails the statement does not match and the default posture
// (deny) governs.
type Statement struct {
	// Sid identifies the rule for audit purposes.
	Sid string `json:"Sid"`
	// Effect is Allow or Deny.
	Effect Effect `json:"Effect"`
	// Actions lists the action names the rule applies to; may contain the
	// "*" wildcard meaning all actions.
	Actions []string `json:"Action"`
	// Conditions gates the statement; nil means vacuously satisfied.
	Conditions *Conditions `json:"Condition,omitempty"`
}

// MatchesAction reports whether the statement's action list contains the
// requested action, either exactly or via the "*" wildcard.
func (s *Statement) MatchesAction(action string) bool {
	if action == "" {
		return false
	}
	for _, a := range s.Actions {
		if a == ActionWildcard || a == action {
			return true
		}
	}
	return false
}

// RequiredTrustDomain returns the trust domain the statement's StringEquals
// condition demands, if any.
func (s *Statement) RequiredTrustDomain() (string, bool) {
	if s.Conditions == nil || s.Conditions.StringEquals == nil {
		return "", false
	}
	domain, ok := s.Conditions.StringEquals[TrustDomainAttribute]
	return domain, ok
}

// PolicyDocument is the declarative access-control rule set attached to a
// guarded agent. It is authored once as configuration and read-only during
// evaluation; one document attaches to exactly one guarded agent.
type PolicyDocument struct {
	// Version is an informational schema/version tag (typically a date).
	Version string `json:"Version"`
	// Statement is the document's single rule.
	Statement Statement `json:"Statement"`
}

// Validate checks the document's structural requirements. A document that
// fails validation must be treated as malformed configuration (deny, surfaced
// to the operator), never as a caller-visible policy violation.
func (p *PolicyDocument) Validate() error {
	if p == nil {
		return apperrors.Wrap(apperrors.ErrMalformedPolicy, "policy document is nil")
	}
	switch p.Statement.Effect {
	case EffectAllow, EffectDeny:
	case "":
		return apperrors.Wrap(apperrors.ErrMalformedPolicy, "statement effect is missing")
	default:
		return apperrors.Wrapf(apperrors.ErrMalformedPolicy, "unknown statement effect %q", p.Statement.Effect)
	}
	if len(p.Statement.Actions) == 0 {
		return apperrors.Wrap(apperrors.ErrMalformedPolicy, "statement action list is empty")
	}
	for _, action := range p.Statement.Actions {
		if action == "" {
			return apperrors.Wrap(apperrors.ErrMalformedPolicy, "statement action list contains an empty action")
		}
	}
	return nil
}

// ParsePolicyDocument decodes and validates a JSON policy document.
// Any decode failure is reported as ErrMalformedPolicy.
func ParsePolicyDocument(data []byte) (*PolicyDocument, error) {
	var doc PolicyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		if apperrors.Is(err, apperrors.ErrMalformedPolicy) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrMalformedPolicy, err.Error())
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
