// Package usecase implements business logic orchestration for the decision audit trail.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/asthalabs/shopperai/internal/audit/domain"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// DecisionRecordRepository defines persistence operations for decision records.
type DecisionRecordRepository interface {
	// Create inserts a new decision record.
	Create(ctx context.Context, record *auditDomain.DecisionRecord) error

	// List retrieves decision records newest first with pagination and optional
	// inclusive time-based filtering (nil means no filter).
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.DecisionRecord, error)

	// DeleteOlderThan removes records created before the given timestamp.
	// When dryRun is true, only the count of matching records is returned.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// VerificationReport summarizes a batch integrity verification run.
type VerificationReport struct {
	TotalChecked  int64 `json:"total_checked"`
	SignedCount   int64 `json:"signed_count"`
	UnsignedCount int64 `json:"unsigned_count"`
	ValidCount    int64 `json:"valid_count"`
	InvalidCount  int64 `json:"invalid_count"`
	// InvalidRecords lists the IDs of records whose signature failed to verify.
	InvalidRecords []string `json:"invalid_records,omitempty"`
}

// DecisionLogUseCase records, lists, verifies, and prunes the decision audit trail.
type DecisionLogUseCase interface {
	// Record persists a signed decision record for the given request/decision
	// pair. Implements the decision recording hook of the access gate.
	Record(
		ctx context.Context,
		targetAgentID string,
		request *iamDomain.AccessRequest,
		decision iamDomain.Decision,
		metadata map[string]any,
	) error

	// List retrieves decision records newest first with pagination and optional
	// inclusive time-based filtering (nil means no filter).
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.DecisionRecord, error)

	// DeleteOlderThan removes records older than the given number of days.
	// When dryRun is true, returns the count without deleting.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)

	// VerifyBatch checks the signature of every record in the time range and
	// returns a summary report. Records written without a signing key count
	// as unsigned rather than invalid.
	VerifyBatch(ctx context.Context, start, end time.Time) (*VerificationReport, error)
}
