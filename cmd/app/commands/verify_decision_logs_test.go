package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditUseCase "github.com/asthalabs/shopperai/internal/audit/usecase"
)

func TestRunVerifyDecisionLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	startDate := "2026-08-01"
	endDate := "2026-08-25"

	report := &auditUseCase.VerificationReport{
		TotalChecked: 10,
		SignedCount:  10,
		ValidCount:   10,
	}

	t.Run("success-text", func(t *testing.T) {
		mockUseCase := &mockDecisionLogUseCase{}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(report, nil)

		var out bytes.Buffer
		err := RunVerifyDecisionLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "text")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Decision Record Integrity Verification")
		require.Contains(t, out.String(), "Status: PASSED")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("success-json", func(t *testing.T) {
		mockUseCase := &mockDecisionLogUseCase{}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(report, nil)

		var out bytes.Buffer
		err := RunVerifyDecisionLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "json")
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(out.Bytes(), &result)
		require.NoError(t, err)
		require.Equal(t, float64(10), result["total_checked"])
		require.Equal(t, true, result["passed"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-dates", func(t *testing.T) {
		err := RunVerifyDecisionLogs(ctx, nil, logger, nil, "invalid", endDate, "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid start date")
	})

	t.Run("end-before-start", func(t *testing.T) {
		err := RunVerifyDecisionLogs(ctx, nil, logger, nil, endDate, startDate, "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "end date must be after start date")
	})

	t.Run("integrity-failure", func(t *testing.T) {
		mockUseCase := &mockDecisionLogUseCase{}
		failureReport := &auditUseCase.VerificationReport{
			TotalChecked: 10,
			InvalidCount: 2,
			InvalidRecords: []string{
				uuid.Must(uuid.NewV7()).String(),
				uuid.Must(uuid.NewV7()).String(),
			},
		}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(failureReport, nil)

		var out bytes.Buffer
		err := RunVerifyDecisionLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "integrity check failed")
		require.Contains(t, out.String(), "WARNING: 2 record(s) failed integrity check!")
	})
}
