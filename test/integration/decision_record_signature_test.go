package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/asthalabs/shopperai/internal/audit/domain"
	auditService "github.com/asthalabs/shopperai/internal/audit/service"
	auditUseCase "github.com/asthalabs/shopperai/internal/audit/usecase"
	"github.com/asthalabs/shopperai/internal/database"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
	"github.com/asthalabs/shopperai/internal/testutil"
)

// recordDecision writes one signed decision record through the use case.
func recordDecision(
	t *testing.T,
	ctx context.Context,
	useCase auditUseCase.DecisionLogUseCase,
	callerID string,
	decision iamDomain.Decision,
) {
	t.Helper()

	var caller *iamDomain.Identity
	if callerID != "" {
		caller = iamDomain.NewIdentity(callerID, "astha.ai")
	}

	err := useCase.Record(ctx, paymentAgentID, &iamDomain.AccessRequest{
		CallerIdentity: caller,
		Action:         "process_refund",
		Context:        map[string]any{"refund_amount": 42.5},
	}, decision, nil)
	require.NoError(t, err, "failed to record decision")
}

// listAll fetches every stored record, newest first.
func listAll(t *testing.T, ctx context.Context, repo auditUseCase.DecisionRecordRepository) []*auditDomain.DecisionRecord {
	t.Helper()
	records, err := repo.List(ctx, 0, 1000, nil, nil)
	require.NoError(t, err)
	return records
}

// TestDecisionRecordSignature_EndToEnd verifies the signing and tamper
// detection workflow for the decision audit trail against real databases.
func TestDecisionRecordSignature_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbConfigs := []struct {
		name   string
		driver string
		setup  func(t *testing.T) *sql.DB
	}{
		{"PostgreSQL", "postgres", testutil.SetupPostgresDB},
		{"MySQL", "mysql", testutil.SetupMySQLDB},
	}

	for _, dbConfig := range dbConfigs {
		t.Run(dbConfig.name, func(t *testing.T) {
			ctx := context.Background()
			db := dbConfig.setup(t)
			defer testutil.TeardownDB(t, db)

			recordRepo := newDecisionRecordRepository(t, dbConfig.driver, db)
			signer := auditService.NewRecordSigner()
			useCase := auditUseCase.NewDecisionLogUseCase(recordRepo, signer, testSigningKey, database.NewTxManager(db))

			t.Run("RecordsAreSignedAndVerifiable", func(t *testing.T) {
				recordDecision(t, ctx, useCase, "shopper-agent", iamDomain.Allow("ok"))
				recordDecision(t, ctx, useCase, "", iamDomain.DenyUnauthorized())

				records := listAll(t, ctx, recordRepo)
				require.Len(t, records, 2)

				for _, record := range records {
					assert.Len(t, record.Signature, 32, "HMAC-SHA256 signature expected")
					assert.NoError(t, signer.Verify(testSigningKey, record))
				}
			})

			t.Run("VerificationFailsWithWrongKey", func(t *testing.T) {
				records := listAll(t, ctx, recordRepo)
				require.NotEmpty(t, records)

				wrongKey := []byte("another-signing-key-32-bytes-long")
				err := signer.Verify(wrongKey, records[0])
				assert.ErrorIs(t, err, auditDomain.ErrSignatureInvalid)
			})

			t.Run("TamperedRecordFailsBatchVerification", func(t *testing.T) {
				records := listAll(t, ctx, recordRepo)
				require.NotEmpty(t, records)
				tampered := records[0]

				// Flip a stored denial/allow directly in the database,
				// bypassing the use case, the way an attacker with DB access
				// would.
				query := "UPDATE decision_records SET outcome = 'allowed' WHERE id = $1"
				if dbConfig.driver == "mysql" {
					query = "UPDATE decision_records SET outcome = 'allowed' WHERE id = ?"
				}
				_, err := db.ExecContext(ctx, query, tampered.ID)
				require.NoError(t, err)

				report, err := useCase.VerifyBatch(ctx,
					time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(time.Hour))
				require.NoError(t, err)

				assert.Equal(t, int64(2), report.TotalChecked)
				assert.Equal(t, int64(1), report.InvalidCount)
				assert.Contains(t, report.InvalidRecords, tampered.ID.String())
			})

			t.Run("UnsignedRecordsAreCountedSeparately", func(t *testing.T) {
				unsignedUseCase := auditUseCase.NewDecisionLogUseCase(recordRepo, signer, nil, database.NewTxManager(db))
				recordDecision(t, ctx, unsignedUseCase, "shopper-agent",
					iamDomain.DenyPolicyViolation("trust domain mismatch"))

				report, err := useCase.VerifyBatch(ctx,
					time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(time.Hour))
				require.NoError(t, err)

				assert.Equal(t, int64(3), report.TotalChecked)
				assert.Equal(t, int64(2), report.SignedCount)
				assert.Equal(t, int64(1), report.UnsignedCount)
			})

			t.Run("DeleteOlderThan", func(t *testing.T) {
				count, err := useCase.DeleteOlderThan(ctx, 0, true)
				require.NoError(t, err)
				assert.Equal(t, int64(3), count, "dry run counts without deleting")

				remaining := listAll(t, ctx, recordRepo)
				assert.Len(t, remaining, 3)

				count, err = useCase.DeleteOlderThan(ctx, 0, false)
				require.NoError(t, err)
				assert.Equal(t, int64(3), count)

				remaining = listAll(t, ctx, recordRepo)
				assert.Empty(t, remaining)
			})
		})
	}
}
