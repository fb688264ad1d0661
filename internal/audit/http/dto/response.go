// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	auditDomain "github.com/asthalabs/shopperai/internal/audit/domain"
)

// DecisionRecordResponse represents a decision record in API responses.
// The signature itself is not exposed; callers only learn whether the record
// is signed. Verification happens through the operator CLI.
type DecisionRecordResponse struct {
	ID                string         `json:"id"`
	RequestID         string         `json:"request_id,omitempty"`
	CallerAgentID     string         `json:"caller_agent_id,omitempty"`
	CallerTrustDomain string         `json:"caller_trust_domain,omitempty"`
	TargetAgentID     string         `json:"target_agent_id"`
	Action            string         `json:"action"`
	Outcome           string         `json:"outcome"`
	Reason            string         `json:"reason,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	Signed            bool           `json:"signed"`
	CreatedAt         time.Time      `json:"created_at"`
}

// MapDecisionRecordToResponse converts a domain decision record to an API response.
func MapDecisionRecordToResponse(record *auditDomain.DecisionRecord) DecisionRecordResponse {
	return DecisionRecordResponse{
		ID:                record.ID.String(),
		RequestID:         record.RequestID,
		CallerAgentID:     record.CallerAgentID,
		CallerTrustDomain: record.CallerTrustDomain,
		TargetAgentID:     record.TargetAgentID,
		Action:            record.Action,
		Outcome:           record.Outcome,
		Reason:            record.Reason,
		Metadata:          record.Metadata,
		Signed:            len(record.Signature) > 0,
		CreatedAt:         record.CreatedAt,
	}
}

// ListDecisionRecordsResponse represents a paginated list of decision records.
type ListDecisionRecordsResponse struct {
	Data []DecisionRecordResponse `json:"data"`
}

// MapDecisionRecordsToListResponse converts domain decision records to a list API response.
func MapDecisionRecordsToListResponse(records []*auditDomain.DecisionRecord) ListDecisionRecordsResponse {
	responses := make([]DecisionRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, MapDecisionRecordToResponse(record))
	}
	return ListDecisionRecordsResponse{
		Data: responses,
	}
}
