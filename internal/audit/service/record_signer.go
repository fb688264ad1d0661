package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/asthalabs/shopperai/internal/audit/domain"
)

type recordSigner struct{}

// NewRecordSigner creates a new HMAC-based decision record signer using
// HKDF-SHA256 for key derivation and HMAC-SHA256 for signature generation.
func NewRecordSigner() RecordSigner {
	return &recordSigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// configured key material. Separates signing key usage from any other use of
// the same material.
// Info parameter: "decision-record-signing-v1" (versioned for future algorithm changes).
func (r *recordSigner) deriveSigningKey(key []byte) ([]byte, error) {
	info := []byte("decision-record-signing-v1")
	hash := sha256.New
	hkdf := hkdf.New(hash, key, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizeRecord converts a decision record to canonical byte representation
// for signing. Uses length-prefixed encoding for variable-length fields to
// prevent ambiguity between adjacent fields.
func (r *recordSigner) canonicalizeRecord(record *auditDomain.DecisionRecord) ([]byte, error) {
	// Estimate capacity to reduce allocations (typical record ~1KB)
	buf := make([]byte, 0, 1024)

	// Record ID (16 bytes)
	buf = append(buf, record.ID[:]...)

	// Variable-length identity and decision fields (length-prefixed)
	buf = appendLengthPrefixed(buf, []byte(record.RequestID))
	buf = appendLengthPrefixed(buf, []byte(record.CallerAgentID))
	buf = appendLengthPrefixed(buf, []byte(record.CallerTrustDomain))
	buf = appendLengthPrefixed(buf, []byte(record.TargetAgentID))
	buf = appendLengthPrefixed(buf, []byte(record.Action))
	buf = appendLengthPrefixed(buf, []byte(record.Outcome))
	buf = appendLengthPrefixed(buf, []byte(record.Reason))

	// Metadata JSON (length-prefixed, deterministic serialization)
	if record.Metadata != nil {
		metadataBytes, err := json.Marshal(record.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		// Empty metadata = 0 length prefix
		buf = appendLengthPrefixed(buf, nil)
	}

	// Timestamp at microsecond precision. The decision_records timestamp
	// columns store microseconds, so signing finer precision would make every
	// record fail verification after a database round trip.
	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(record.CreatedAt.UnixMicro()))
	buf = append(buf, timeBytes...)

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Format: [length (4 bytes)] + [data (length bytes)]
// Panics if data length exceeds uint32 max (4GB) to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max (4GB)")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates HMAC-SHA256 signature for the decision record.
// Returns 32-byte signature or error if signing fails.
func (r *recordSigner) Sign(key []byte, record *auditDomain.DecisionRecord) ([]byte, error) {
	signingKey, err := r.deriveSigningKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer zero(signingKey) // Clear derived key from memory

	canonical, err := r.canonicalizeRecord(record)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize record: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	signature := mac.Sum(nil)

	return signature, nil
}

// Verify checks if the decision record signature is valid.
// Returns nil if valid, ErrSignatureInvalid if tampered or invalid.
func (r *recordSigner) Verify(key []byte, record *auditDomain.DecisionRecord) error {
	expectedSig, err := r.Sign(key, record)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(record.Signature, expectedSig) {
		return auditDomain.ErrSignatureInvalid
	}

	return nil
}

// zero overwrites sensitive data in memory with zeros.
// Prevents key material from lingering in memory after use.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
