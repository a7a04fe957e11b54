package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IPNData holds the transaction details inside an IPN payload.
type IPNData struct {
	TrxID     string          `json:"trx_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Type      string          `json:"type"` // always "checkout"
	Timestamp string          `json:"timestamp"`
}

// IPNPayload is the signed notification body POSTed to the merchant's
// ipn_url. Signature is HMAC-SHA256(identifier + timestamp) hex upper-case,
// keyed by the shared sandbox secret.
type IPNPayload struct {
	Identifier string  `json:"identifier"`
	Status     string  `json:"status"` // "success" or "failed"
	Signature  string  `json:"signature"`
	Timestamp  int64   `json:"timestamp"`
	Data       IPNData `json:"data"`
}

// NotificationRecord is the local mirror of a delivered (or attempted)
// notification, kept for read-back by dashboards and test harnesses.
type NotificationRecord struct {
	TrxID      string     `json:"trx_id"`
	Identifier string     `json:"identifier"`
	Payload    IPNPayload `json:"payload"`
	ReceivedAt time.Time  `json:"received_at"`
}
