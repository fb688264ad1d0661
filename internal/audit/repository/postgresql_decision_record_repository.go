// Package repository implements decision record persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	auditDomain "github.com/asthalabs/shopperai/internal/audit/domain"
	"github.com/asthalabs/shopperai/internal/database"
	apperrors "github.com/asthalabs/shopperai/internal/errors"
)

// PostgreSQLDecisionRecordRepository implements DecisionRecord persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLDecisionRecordRepository struct {
	db *sql.DB
}

// Create inserts a new DecisionRecord into the PostgreSQL database. Uses transaction
// support via database.GetTx(). Handles nil metadata as database NULL. Returns an error
// if metadata marshaling or database insertion fails.
func (p *PostgreSQLDecisionRecordRepository) Create(ctx context.Context, record *auditDomain.DecisionRecord) error {
	querier := database.GetTx(ctx, p.db)

	var metadataJSON []byte
	var err error

	// Handle nil metadata as NULL
	if record.Metadata != nil {
		metadataJSON, err = json.Marshal(record.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal decision record metadata")
		}
	}

	query := `INSERT INTO decision_records (id, request_id, caller_agent_id, caller_trust_domain, target_agent_id, action, outcome, reason, metadata, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.RequestID,
		record.CallerAgentID,
		record.CallerTrustDomain,
		record.TargetAgentID,
		record.Action,
		record.Outcome,
		record.Reason,
		metadataJSON,
		record.Signature,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create decision record")
	}

	return nil
}

// List retrieves decision records ordered by ID descending (newest first) with
// pagination and optional time-based filtering. Both boundaries are inclusive.
// All timestamps are expected in UTC. Returns empty slice if no records found.
func (p *PostgreSQLDecisionRecordRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.DecisionRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, caller_agent_id, caller_trust_domain, target_agent_id, action, outcome, reason, metadata, signature, created_at
			  FROM decision_records
			  WHERE ($1::timestamptz IS NULL OR created_at >= $1)
			    AND ($2::timestamptz IS NULL OR created_at <= $2)
			  ORDER BY id DESC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, createdAtFrom, createdAtTo, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list decision records")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	records := make([]*auditDomain.DecisionRecord, 0)
	for rows.Next() {
		record, err := scanDecisionRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate decision records")
	}

	return records, nil
}

// DeleteOlderThan removes decision records created before the specified timestamp.
// When dryRun is true, returns count via SELECT COUNT(*) without deletion. When false,
// executes DELETE and returns affected rows. All timestamps are expected in UTC.
func (p *PostgreSQLDecisionRecordRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM decision_records WHERE created_at < $1`
		var count int64
		err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count decision records")
		}
		return count, nil
	}

	query := `DELETE FROM decision_records WHERE created_at < $1`
	result, err := querier.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete decision records")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}

	return count, nil
}

// scanDecisionRecord scans a single row into a DecisionRecord, handling NULL metadata.
func scanDecisionRecord(rows *sql.Rows) (*auditDomain.DecisionRecord, error) {
	var record auditDomain.DecisionRecord
	var metadataJSON []byte

	err := rows.Scan(
		&record.ID,
		&record.RequestID,
		&record.CallerAgentID,
		&record.CallerTrustDomain,
		&record.TargetAgentID,
		&record.Action,
		&record.Outcome,
		&record.Reason,
		&metadataJSON,
		&record.Signature,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan decision record")
	}

	// Unmarshal metadata if not NULL
	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal decision record metadata")
		}
	}

	return &record, nil
}

// NewPostgreSQLDecisionRecordRepository creates a new PostgreSQL DecisionRecord repository.
func NewPostgreSQLDecisionRecordRepository(db *sql.DB) *PostgreSQLDecisionRecordRepository {
	return &PostgreSQLDecisionRecordRepository{db: db}
}
