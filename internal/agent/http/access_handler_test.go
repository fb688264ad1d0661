package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asthalabs/shopperai/internal/agent/http/dto"
	apperrors "github.com/asthalabs/shopperai/internal/errors"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

func performEvaluate(handler *AccessHandler, body any) *httptest.ResponseRecorder {
	router := gin.New()
	router.POST("/v1/access/evaluate", handler.EvaluateHandler)

	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/access/evaluate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAccessHandler_EvaluateHandler(t *testing.T) {
	t.Run("Success_AllowedDecision", func(t *testing.T) {
		mockAccess := &mockAccessUseCase{}
		mockAccess.On("Evaluate", mock.Anything, "payment-agent", mock.Anything).
			Return(iamDomain.Allow("all conditions satisfied"), nil).
			Once()

		handler := NewAccessHandler(mockAccess, testLogger())

		w := performEvaluate(handler, dto.EvaluateRequest{
			TargetAgentID: "payment-agent",
			Caller:        &dto.CallerIdentity{AgentID: "shopper-agent", TrustDomain: "astha.ai"},
			Action:        "process_refund",
			Context:       map[string]any{"refund_amount": 42.5},
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DecisionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Allowed)
		assert.Equal(t, "allowed", response.Outcome)
		assert.Equal(t, "Allowed", response.Category)
		mockAccess.AssertExpectations(t)
	})

	t.Run("Success_DenialIsStill200", func(t *testing.T) {
		mockAccess := &mockAccessUseCase{}
		mockAccess.On("Evaluate", mock.Anything, "payment-agent", mock.Anything).
			Return(iamDomain.DenyUnauthorized(), nil).
			Once()

		handler := NewAccessHandler(mockAccess, testLogger())

		w := performEvaluate(handler, dto.EvaluateRequest{
			TargetAgentID: "payment-agent",
			Action:        "process_refund",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DecisionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response.Allowed)
		assert.Equal(t, "denied_unauthorized", response.Outcome)
		assert.Equal(t, "Unauthorized access", response.Category)
	})

	t.Run("Failure_MissingTargetIs422", func(t *testing.T) {
		handler := NewAccessHandler(&mockAccessUseCase{}, testLogger())

		w := performEvaluate(handler, dto.EvaluateRequest{
			Action: "process_refund",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Failure_MalformedPolicyIs500", func(t *testing.T) {
		mockAccess := &mockAccessUseCase{}
		mockAccess.On("Evaluate", mock.Anything, "payment-agent", mock.Anything).
			Return(
				iamDomain.DenyPolicyViolation("the access policy could not be interpreted"),
				apperrors.Wrap(apperrors.ErrMalformedPolicy, `unknown condition operator "op"`),
			).
			Once()

		handler := NewAccessHandler(mockAccess, testLogger())

		w := performEvaluate(handler, dto.EvaluateRequest{
			TargetAgentID: "payment-agent",
			Action:        "process_refund",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
