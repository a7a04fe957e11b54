package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a transaction.
// Pending is only reachable when a 3-D-Secure challenge is required;
// non-challenged transactions are created directly in a terminal state.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Customer holds the shopper identity captured at initiation.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
}

// BillingAddress holds the billing address block. Only Country is mandatory.
type BillingAddress struct {
	Country    string `json:"country"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Card holds the stored card details. Number is masked before storage
// (first 6 / last 4 visible) and the original digits are not retrievable.
type Card struct {
	Number      string `json:"number"`
	Brand       Brand  `json:"brand"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"` // normalized to 4 digits
	Holder      string `json:"holder"`
}

// Transaction is a sandbox payment. Created at initiation, mutated only by
// the checkout service, never deleted (sandbox lifetime = process lifetime).
type Transaction struct {
	ID                string            `json:"id"`
	PublicKey         string            `json:"-"`
	Amount            decimal.Decimal   `json:"amount"`
	Currency          string            `json:"currency"`
	Customer          Customer          `json:"customer"`
	Card              Card              `json:"card"`
	BillingAddress    BillingAddress    `json:"billing_address"`
	DeviceFingerprint string            `json:"device_fingerprint"`
	Details           string            `json:"details"`
	Identifier        string            `json:"identifier"`
	IPNURL            string            `json:"ipn_url"`
	SuccessURL        string            `json:"success_url"`
	CancelURL         string            `json:"cancel_url"`
	SiteName          string            `json:"site_name"`
	Status            TransactionStatus `json:"status"`
	RequiresChallenge bool              `json:"requires_challenge"`
	ChallengeCode     string            `json:"-"` // one-time code, set only for challenged transactions
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusSuccess ||
		t.Status == TransactionStatusFailed
}
