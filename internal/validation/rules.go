// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/asthalabs/shopperai/internal/errors"
)

var (
	// agentIDRegex matches agent identifiers: lowercase alphanumerics with
	// hyphens and underscores, e.g. "payment-agent"
	agentIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]*$`)

	// actionNameRegex matches action names like "process_refund" and the
	// wildcard "*"
	actionNameRegex = regexp.MustCompile(`^(\*|[a-z][a-z0-9_]*)$`)

	// trustDomainRegex matches DNS-style trust domains like "astha.ai"
	trustDomainRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9\-]*[a-z0-9])?)+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// AgentID validates agent identifier format
var AgentID = validation.NewStringRuleWithError(
	func(s string) bool {
		return agentIDRegex.MatchString(s)
	},
	validation.NewError(
		"validation_agent_id_format",
		"must contain only lowercase letters, numbers, hyphens and underscores",
	),
)

// ActionName validates action name format (snake_case or the "*" wildcard)
var ActionName = validation.NewStringRuleWithError(
	func(s string) bool {
		return actionNameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_action_name_format",
		"must be a snake_case action name or the wildcard \"*\"",
	),
)

// TrustDomain validates trust domain format (DNS-style, e.g. "astha.ai").
// Matching against policies is case-sensitive, so the rule only accepts
// lowercase input.
var TrustDomain = validation.NewStringRuleWithError(
	func(s string) bool {
		return trustDomainRegex.MatchString(s)
	},
	validation.NewError(
		"validation_trust_domain_format",
		"must be a lowercase DNS-style trust domain",
	),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
