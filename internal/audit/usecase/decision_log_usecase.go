package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/asthalabs/shopperai/internal/audit/domain"
	auditService "github.com/asthalabs/shopperai/internal/audit/service"
	"github.com/asthalabs/shopperai/internal/database"
	apperrors "github.com/asthalabs/shopperai/internal/errors"
	"github.com/asthalabs/shopperai/internal/httputil"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// verifyBatchSize is the page size used when walking records during batch verification.
const verifyBatchSize = 500

// decisionLogUseCase implements DecisionLogUseCase.
type decisionLogUseCase struct {
	recordRepo DecisionRecordRepository
	signer     auditService.RecordSigner
	signingKey []byte
	txManager  database.TxManager
}

// Record persists a signed decision record for an access-control decision.
// Generates a unique UUIDv7 identifier and timestamp. When no signing key is
// configured the record is stored unsigned.
func (d *decisionLogUseCase) Record(
	ctx context.Context,
	targetAgentID string,
	request *iamDomain.AccessRequest,
	decision iamDomain.Decision,
	metadata map[string]any,
) error {
	record := &auditDomain.DecisionRecord{
		ID:            uuid.Must(uuid.NewV7()),
		RequestID:     httputil.RequestIDFromContext(ctx),
		TargetAgentID: targetAgentID,
		Outcome:       string(decision.Outcome),
		Reason:        decision.Reason,
		Metadata:      metadata,
		// Truncated to the timestamp column precision so a stored record is
		// byte-identical to the in-memory record that was signed.
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if request != nil {
		record.Action = request.Action
		if domain, ok := request.TrustDomain(); ok {
			record.CallerTrustDomain = domain
		}
		if request.CallerIdentity != nil {
			record.CallerAgentID = request.CallerIdentity.AgentID
		}
	}

	if len(d.signingKey) > 0 {
		signature, err := d.signer.Sign(d.signingKey, record)
		if err != nil {
			return apperrors.Wrap(err, "failed to sign decision record")
		}
		record.Signature = signature
	}

	if err := d.recordRepo.Create(ctx, record); err != nil {
		return apperrors.Wrap(err, "failed to create decision record")
	}

	return nil
}

// List retrieves decision records newest first with pagination and optional
// time-based filtering. Both boundaries are inclusive (>= and <=). All
// timestamps are expected in UTC.
func (d *decisionLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.DecisionRecord, error) {
	records, err := d.recordRepo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list decision records")
	}

	return records, nil
}

// DeleteOlderThan removes decision records older than the given number of days.
// When dryRun is true, returns the count of matching records without deleting.
func (d *decisionLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	olderThan := time.Now().UTC().AddDate(0, 0, -days)

	count, err := d.recordRepo.DeleteOlderThan(ctx, olderThan, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete decision records")
	}

	return count, nil
}

// VerifyBatch checks the signature of every record in the time range and
// returns a summary report. Walks the records in pages so arbitrarily large
// ranges don't load everything into memory at once. The whole walk runs in a
// single read transaction: the paging is offset-based, so records inserted
// mid-walk would otherwise shift pages and make the report skip or
// double-count records.
func (d *decisionLogUseCase) VerifyBatch(ctx context.Context, start, end time.Time) (*VerificationReport, error) {
	report := &VerificationReport{}

	err := d.txManager.WithTx(ctx, func(ctx context.Context) error {
		offset := 0
		for {
			records, err := d.recordRepo.List(ctx, offset, verifyBatchSize, &start, &end)
			if err != nil {
				return apperrors.Wrap(err, "failed to list decision records for verification")
			}
			if len(records) == 0 {
				return nil
			}

			for _, record := range records {
				report.TotalChecked++

				if len(record.Signature) == 0 {
					report.UnsignedCount++
					continue
				}

				report.SignedCount++
				if err := d.signer.Verify(d.signingKey, record); err != nil {
					report.InvalidCount++
					report.InvalidRecords = append(report.InvalidRecords, record.ID.String())
				} else {
					report.ValidCount++
				}
			}

			if len(records) < verifyBatchSize {
				return nil
			}
			offset += verifyBatchSize
		}
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

// NewDecisionLogUseCase creates a DecisionLogUseCase with the provided
// dependencies. An empty signingKey disables signing; records are then stored
// unsigned and counted as such during verification.
func NewDecisionLogUseCase(
	recordRepo DecisionRecordRepository,
	signer auditService.RecordSigner,
	signingKey []byte,
	txManager database.TxManager,
) DecisionLogUseCase {
	return &decisionLogUseCase{
		recordRepo: recordRepo,
		signer:     signer,
		signingKey: signingKey,
		txManager:  txManager,
	}
}
