// Package domain defines the entities handled by the payment agent.
package domain

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// Order is a payment order as reported by the processor.
type Order struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
}

// Capture is the result of capturing an approved order.
type Capture struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Refund is the result of refunding a captured payment.
type Refund struct {
	ID        string `json:"id"`
	CaptureID string `json:"capture_id"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// NewTransactionID generates a transaction reference in the format
// PAY-XXXXXXXX-YYYYMMDDHHMM: an 8-character random hex component followed by
// a minute-resolution timestamp.
func NewTransactionID(now time.Time) string {
	random := make([]byte, 4)
	// rand.Read on the crypto source never fails
	_, _ = rand.Read(random)

	var sb strings.Builder
	sb.WriteString("PAY-")
	sb.WriteString(strings.ToUpper(hex.EncodeToString(random)))
	sb.WriteString("-")
	sb.WriteString(now.Format("200601021504"))
	return sb.String()
}
