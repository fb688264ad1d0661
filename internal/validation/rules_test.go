package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/asthalabs/shopperai/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("Success_NilError", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("Success_WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(errors.New("field is required"))

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "field is required")
	})
}

func TestAgentID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid simple", "payment-agent", false},
		{"valid with underscore", "market_research_agent", false},
		{"valid with digits", "agent2", false},
		{"uppercase rejected", "PaymentAgent", true},
		{"leading hyphen rejected", "-agent", true},
		{"spaces rejected", "payment agent", true},
		{"empty rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, AgentID)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActionName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid action", "process_refund", false},
		{"valid single word", "create_promotion", false},
		{"wildcard allowed", "*", false},
		{"uppercase rejected", "ProcessRefund", true},
		{"leading digit rejected", "1action", true},
		{"hyphen rejected", "process-refund", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, ActionName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTrustDomain(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid domain", "astha.ai", false},
		{"valid multi-label", "agents.vcagents.ai", false},
		{"valid with hyphen", "market-place.com", false},
		{"uppercase rejected", "Astha.AI", true},
		{"single label rejected", "localhost", true},
		{"trailing dot rejected", "astha.ai.", true},
		{"empty rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, TrustDomain)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, validation.Validate("payment-agent", NoWhitespace))
	assert.Error(t, validation.Validate(" payment-agent", NoWhitespace))
	assert.Error(t, validation.Validate("payment-agent ", NoWhitespace))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("value", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}
