package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/asthalabs/shopperai/internal/audit/domain"
	"github.com/asthalabs/shopperai/internal/database"
	apperrors "github.com/asthalabs/shopperai/internal/errors"
)

// MySQLDecisionRecordRepository implements DecisionRecord persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLDecisionRecordRepository struct {
	db *sql.DB
}

// Create inserts a new DecisionRecord into the MySQL database using BINARY(16) for
// the record ID. Uses transaction support via database.GetTx(). Handles nil metadata
// as database NULL. Returns an error if UUID/metadata marshaling or insertion fails.
func (m *MySQLDecisionRecordRepository) Create(ctx context.Context, record *auditDomain.DecisionRecord) error {
	querier := database.GetTx(ctx, m.db)

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
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal decision record id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLDecisionRecordRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.DecisionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	var sb strings.Builder
	sb.WriteString(`SELECT id, request_id, caller_agent_id, caller_trust_domain, target_agent_id, action, outcome, reason, metadata, signature, created_at
			  FROM decision_records`)

	conditions := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if createdAtFrom != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *createdAtFrom)
	}
	if createdAtTo != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *createdAtTo)
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	sb.WriteString(" ORDER BY id DESC LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list decision records")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	records := make([]*auditDomain.DecisionRecord, 0)
	for rows.Next() {
		record, err := scanMySQLDecisionRecord(rows)
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
func (m *MySQLDecisionRecordRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM decision_records WHERE created_at < ?`
		var count int64
		err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count decision records")
		}
		return count, nil
	}

	query := `DELETE FROM decision_records WHERE created_at < ?`
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

// scanMySQLDecisionRecord scans a single row into a DecisionRecord, converting
// the BINARY(16) ID back to a UUID and handling NULL metadata.
func scanMySQLDecisionRecord(rows *sql.Rows) (*auditDomain.DecisionRecord, error) {
	var record auditDomain.DecisionRecord
	var idBinary []byte
	var metadataJSON []byte

	err := rows.Scan(
		&idBinary,
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

	id, err := uuid.FromBytes(idBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal decision record id")
	}
	record.ID = id

	// Unmarshal metadata if not NULL
	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal decision record metadata")
		}
	}

	return &record, nil
}

// NewMySQLDecisionRecordRepository creates a new MySQL DecisionRecord repository.
func NewMySQLDecisionRecordRepository(db *sql.DB) *MySQLDecisionRecordRepository {
	return &MySQLDecisionRecordRepository{db: db}
}
