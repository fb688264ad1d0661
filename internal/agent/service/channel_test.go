package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	agentDomain "github.com/asthalabs/shopperai/internal/agent/domain"
	apperrors "github.com/asthalabs/shopperai/internal/errors"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// mockAccessUseCase is a mock implementation of AccessUseCase for testing.
type mockAccessUseCase struct {
	mock.Mock
}

func (m *mockAccessUseCase) Authorize(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
) (iamDomain.Decision, error) {
	args := m.Called(ctx, targetAgentID, request)
	return args.Get(0).(iamDomain.Decision), args.Error(1)
}

func (m *mockAccessUseCase) Evaluate(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
) (iamDomain.Decision, error) {
	args := m.Called(ctx, targetAgentID, request)
	return args.Get(0).(iamDomain.Decision), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChannel_Connect(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AllowedCallerRunsOperation", func(t *testing.T) {
		mockAccess := &mockAccessUseCase{}
		operationCalls := 0

		channel := NewChannel("payment-agent", mockAccess, map[string]Operation{
			"process_refund": func(ctx context.Context, payload map[string]any) (map[string]any, error) {
				operationCalls++
				return map[string]any{"refund_id": "REF-1"}, nil
			},
		}, testLogger())

		caller := iamDomain.NewIdentity("payment-processor", "astha.ai")
		mockAccess.On("Authorize", ctx, "payment-agent", mock.AnythingOfType("*domain.AccessRequest")).
			Return(iamDomain.Allow(""), nil).
			Once()

		message, err := channel.Connect(ctx, caller, "process_refund", map[string]any{"amount": 10.0})

		require.NoError(t, err)
		require.NotNil(t, message)
		assert.Equal(t, 1, operationCalls)
		assert.Equal(t, "payment-agent", message.FromAgentID)
		assert.Equal(t, agentDomain.TypeConnectionResult, message.Type)
		assert.Equal(t, agentDomain.StatusConnectionSuccessful, message.Payload["status"])
		assert.Equal(t, map[string]any{"refund_id": "REF-1"}, message.Payload["result"])
		mockAccess.AssertExpectations(t)
	})

	t.Run("Failure_NoIdentityIsUnauthorized", func(t *testing.T) {
		mockAccess := &mockAccessUseCase{}
		operationCalls := 0

		channel := NewChannel("payment-agent", mockAccess, map[string]Operation{
			"process_refund": func(ctx context.Context, payload map[string]any) (map[string]any, error) {
				operationCalls++
				return nil, nil
			},
		}, testLogger())

		mockAccess.On("Authorize", ctx, "payment-agent", mock.AnythingOfType("*domain.AccessRequest")).
			Return(iamDomain.DenyUnauthorized(), nil).
			Once()

		message, err := channel.Connect(ctx, nil, "process_refund", nil)

		assert.Nil(t, message)
		require.Error(t, err)
		assert.ErrorIs(t, err, agentDomain.ErrUnauthorizedAccess)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
		// The sensitive operation must not run on a rejected call
		assert.Equal(t, 0, operationCalls)
	})

	t.Run("Failure_PolicyDenialIsDistinguishable", func(t *testing.T) {
		mockAccess := &mockAccessUseCase{}
		operationCalls := 0

		channel := NewChannel("payment-agent", mockAccess, map[string]Operation{
			"create_promotion": func(ctx context.Context, payload map[string]any) (map[string]any, error) {
				operationCalls++
				return nil, nil
			},
		}, testLogger())

		caller := iamDomain.NewIdentity("market-research-agent", "astha.ai")
		mockAccess.On("Authorize", ctx, "payment-agent", mock.AnythingOfType("*domain.AccessRequest")).
			Return(iamDomain.DenyPolicyViolation(`action "create_promotion" is not permitted`), nil).
			Once()

		message, err := channel.Connect(ctx, caller, "create_promotion", nil)

		assert.Nil(t, message)
		require.Error(t, err)
		assert.ErrorIs(t, err, agentDomain.ErrPolicyViolation)
		assert.NotErrorIs(t, err, agentDomain.ErrUnauthorizedAccess)
		assert.Contains(t, err.Error(), "not permitted")
		assert.Equal(t, 0, operationCalls)
	})

	t.Run("Failure_OperatorFaultStillDenies", func(t *testing.T) {
		mockAccess := &mockAccessUseCase{}
		operationCalls := 0

		channel := NewChannel("payment-agent", mockAccess, map[string]Operation{
			"process_refund": func(ctx context.Context, payload map[string]any) (map[string]any, error) {
				operationCalls++
				return nil, nil
			},
		}, testLogger())

		caller := iamDomain.NewIdentity("payment-processor", "astha.ai")
		// Malformed policy: the caller is denied even though the fault is the operator's
		mockAccess.On("Authorize", ctx, "payment-agent", mock.AnythingOfType("*domain.AccessRequest")).
			Return(
				iamDomain.DenyPolicyViolation("access policy could not be evaluated"),
				apperrors.ErrMalformedPolicy,
			).
			Once()

		message, err := channel.Connect(ctx, caller, "process_refund", nil)

		assert.Nil(t, message)
		assert.ErrorIs(t, err, agentDomain.ErrPolicyViolation)
		assert.Equal(t, 0, operationCalls)
	})

	t.Run("Failure_UnsupportedAction", func(t *testing.T) {
		mockAccess := &mockAccessUseCase{}

		channel := NewChannel("payment-agent", mockAccess, nil, testLogger())

		caller := iamDomain.NewIdentity("payment-processor", "astha.ai")
		mockAccess.On("Authorize", ctx, "payment-agent", mock.AnythingOfType("*domain.AccessRequest")).
			Return(iamDomain.Allow(""), nil).
			Once()

		message, err := channel.Connect(ctx, caller, "unknown_action", nil)

		assert.Nil(t, message)
		assert.ErrorIs(t, err, agentDomain.ErrUnsupportedAction)
	})

	t.Run("Failure_OperationErrorPropagates", func(t *testing.T) {
		mockAccess := &mockAccessUseCase{}

		channel := NewChannel("payment-agent", mockAccess, map[string]Operation{
			"process_refund": func(ctx context.Context, payload map[string]any) (map[string]any, error) {
				return nil, assert.AnError
			},
		}, testLogger())

		caller := iamDomain.NewIdentity("payment-processor", "astha.ai")
		mockAccess.On("Authorize", ctx, "payment-agent", mock.AnythingOfType("*domain.AccessRequest")).
			Return(iamDomain.Allow(""), nil).
			Once()

		message, err := channel.Connect(ctx, caller, "process_refund", nil)

		assert.Nil(t, message)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, agentDomain.ErrPolicyViolation)
	})
}

func TestChannel_Actions(t *testing.T) {
	channel := NewChannel("payment-agent", &mockAccessUseCase{}, map[string]Operation{
		"process_refund":  nil,
		"create_payment":  nil,
		"capture_payment": nil,
	}, testLogger())

	assert.Equal(t, "payment-agent", channel.AgentID())
	assert.ElementsMatch(t, []string{"process_refund", "create_payment", "capture_payment"}, channel.Actions())
}
