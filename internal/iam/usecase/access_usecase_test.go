package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/asthalabs/shopperai/internal/errors"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// mockPolicyRepository is a mock implementation of PolicyRepository for testing.
type mockPolicyRepository struct {
	mock.Mock
}

func (m *mockPolicyRepository) Get(ctx context.Context, agentID string) (*iamDomain.PolicyDocument, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*iamDomain.PolicyDocument), args.Error(1)
}

// mockEvaluator is a mock implementation of service.Evaluator for testing.
type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Evaluate(
	request *iamDomain.AccessRequest,
	policy *iamDomain.PolicyDocument,
) (iamDomain.Decision, error) {
	args := m.Called(request, policy)
	return args.Get(0).(iamDomain.Decision), args.Error(1)
}

// mockDecisionRecorder is a mock implementation of DecisionRecorder for testing.
type mockDecisionRecorder struct {
	mock.Mock
}

func (m *mockDecisionRecorder) Record(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
	decision iamDomain.Decision,
	metadata map[string]any,
) error {
	args := m.Called(ctx, targetAgentID, request, decision, metadata)
	return args.Error(0)
}

func testPolicy() *iamDomain.PolicyDocument {
	return &iamDomain.PolicyDocument{
		Statement: iamDomain.Statement{
			Sid:     "AllowRefunds",
			Effect:  iamDomain.EffectAllow,
			Actions: []string{"process_refund"},
		},
	}
}

func testRequest() *iamDomain.AccessRequest {
	return &iamDomain.AccessRequest{
		CallerIdentity: iamDomain.NewIdentity("shopper-agent", "astha.ai"),
		Action:         "process_refund",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAccessUseCaseAuthorize(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AllowedAndRecorded", func(t *testing.T) {
		mockRepo := &mockPolicyRepository{}
		mockEval := &mockEvaluator{}
		mockRecorder := &mockDecisionRecorder{}

		policy := testPolicy()
		request := testRequest()
		allowed := iamDomain.Allow(`action "process_refund" allowed`)

		mockRepo.On("Get", ctx, "payment-agent").Return(policy, nil)
		mockEval.On("Evaluate", request, policy).Return(allowed, nil)
		mockRecorder.On("Record", ctx, "payment-agent", request, allowed, map[string]any(nil)).Return(nil)

		useCase := NewAccessUseCase(mockRepo, mockEval, mockRecorder, testLogger())
		decision, err := useCase.Authorize(ctx, "payment-agent", request)

		require.NoError(t, err)
		require.True(t, decision.Allowed())
		mockRepo.AssertExpectations(t)
		mockEval.AssertExpectations(t)
		mockRecorder.AssertExpectations(t)
	})

	t.Run("Success_DenialIsNotAnError", func(t *testing.T) {
		mockRepo := &mockPolicyRepository{}
		mockEval := &mockEvaluator{}
		mockRecorder := &mockDecisionRecorder{}

		policy := testPolicy()
		request := testRequest()
		denied := iamDomain.DenyUnauthorized()

		mockRepo.On("Get", ctx, "payment-agent").Return(policy, nil)
		mockEval.On("Evaluate", request, policy).Return(denied, nil)
		mockRecorder.On("Record", ctx, "payment-agent", request, denied, map[string]any(nil)).Return(nil)

		useCase := NewAccessUseCase(mockRepo, mockEval, mockRecorder, testLogger())
		decision, err := useCase.Authorize(ctx, "payment-agent", request)

		require.NoError(t, err)
		require.False(t, decision.Allowed())
		require.Equal(t, iamDomain.OutcomeDeniedUnauthorized, decision.Outcome)
	})

	t.Run("Failure_MissingPolicyDeniesAndSurfacesError", func(t *testing.T) {
		mockRepo := &mockPolicyRepository{}
		mockRecorder := &mockDecisionRecorder{}

		request := testRequest()
		mockRepo.On("Get", ctx, "payment-agent").Return(nil, iamDomain.ErrPolicyNotFound)
		mockRecorder.On("Record", ctx, "payment-agent", request,
			mock.AnythingOfType("domain.Decision"), map[string]any(nil)).Return(nil)

		useCase := NewAccessUseCase(mockRepo, &mockEvaluator{}, mockRecorder, testLogger())
		decision, err := useCase.Authorize(ctx, "payment-agent", request)

		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrNotFound))
		require.False(t, decision.Allowed())
		require.Equal(t, iamDomain.OutcomeDeniedPolicyViolation, decision.Outcome)
		mockRecorder.AssertExpectations(t)
	})

	t.Run("Failure_MalformedPolicyDeniesAndSurfacesError", func(t *testing.T) {
		mockRepo := &mockPolicyRepository{}
		mockEval := &mockEvaluator{}
		mockRecorder := &mockDecisionRecorder{}

		policy := testPolicy()
		request := testRequest()
		denied := iamDomain.DenyPolicyViolation("access policy could not be evaluated")
		evalErr := apperrors.Wrap(apperrors.ErrMalformedPolicy, "statement effect is missing")

		mockRepo.On("Get", ctx, "payment-agent").Return(policy, nil)
		mockEval.On("Evaluate", request, policy).Return(denied, evalErr)
		mockRecorder.On("Record", ctx, "payment-agent", request, denied, map[string]any(nil)).Return(nil)

		useCase := NewAccessUseCase(mockRepo, mockEval, mockRecorder, testLogger())
		decision, err := useCase.Authorize(ctx, "payment-agent", request)

		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrMalformedPolicy))
		require.False(t, decision.Allowed())
		// The failing evaluation is still recorded
		mockRecorder.AssertExpectations(t)
	})

	t.Run("Success_RecordingFailureNeverFlipsTheDecision", func(t *testing.T) {
		mockRepo := &mockPolicyRepository{}
		mockEval := &mockEvaluator{}
		mockRecorder := &mockDecisionRecorder{}

		policy := testPolicy()
		request := testRequest()
		allowed := iamDomain.Allow("ok")

		mockRepo.On("Get", ctx, "payment-agent").Return(policy, nil)
		mockEval.On("Evaluate", request, policy).Return(allowed, nil)
		mockRecorder.On("Record", ctx, "payment-agent", request, allowed, map[string]any(nil)).
			Return(apperrors.New("audit store unavailable"))

		useCase := NewAccessUseCase(mockRepo, mockEval, mockRecorder, testLogger())
		decision, err := useCase.Authorize(ctx, "payment-agent", request)

		require.NoError(t, err)
		require.True(t, decision.Allowed())
	})

	t.Run("Success_NilRecorderIsAllowed", func(t *testing.T) {
		mockRepo := &mockPolicyRepository{}
		mockEval := &mockEvaluator{}

		policy := testPolicy()
		request := testRequest()

		mockRepo.On("Get", ctx, "payment-agent").Return(policy, nil)
		mockEval.On("Evaluate", request, policy).Return(iamDomain.Allow("ok"), nil)

		useCase := NewAccessUseCase(mockRepo, mockEval, nil, testLogger())
		decision, err := useCase.Authorize(ctx, "payment-agent", request)

		require.NoError(t, err)
		require.True(t, decision.Allowed())
	})
}

func TestAccessUseCaseEvaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordCarriesDryRunMarker", func(t *testing.T) {
		mockRepo := &mockPolicyRepository{}
		mockEval := &mockEvaluator{}
		mockRecorder := &mockDecisionRecorder{}

		policy := testPolicy()
		request := testRequest()
		allowed := iamDomain.Allow("ok")

		mockRepo.On("Get", ctx, "payment-agent").Return(policy, nil)
		mockEval.On("Evaluate", request, policy).Return(allowed, nil)
		mockRecorder.On("Record", ctx, "payment-agent", request, allowed,
			map[string]any{"dry_run": true}).Return(nil)

		useCase := NewAccessUseCase(mockRepo, mockEval, mockRecorder, testLogger())
		decision, err := useCase.Evaluate(ctx, "payment-agent", request)

		require.NoError(t, err)
		require.True(t, decision.Allowed())
		mockRecorder.AssertExpectations(t)
	})

	t.Run("Success_SameDecisionAsAuthorize", func(t *testing.T) {
		mockRepo := &mockPolicyRepository{}
		mockEval := &mockEvaluator{}

		policy := testPolicy()
		request := testRequest()
		denied := iamDomain.DenyPolicyViolation("trust domain mismatch")

		mockRepo.On("Get", ctx, "payment-agent").Return(policy, nil).Twice()
		mockEval.On("Evaluate", request, policy).Return(denied, nil).Twice()

		useCase := NewAccessUseCase(mockRepo, mockEval, nil, testLogger())

		authorizeDecision, err := useCase.Authorize(ctx, "payment-agent", request)
		require.NoError(t, err)
		evaluateDecision, err := useCase.Evaluate(ctx, "payment-agent", request)
		require.NoError(t, err)

		require.Equal(t, authorizeDecision, evaluateDecision)
	})
}
