package ports

import (
	"context"

	"sandbox-payment-gateway/internal/core/domain"

	"github.com/shopspring/decimal"
)

// SignatureService signs IPN payloads with the shared sandbox secret.
// The signature is HMAC-SHA256 over identifier + unix-seconds timestamp,
// hex-encoded upper-case.
type SignatureService interface {
	Sign(identifier string, timestamp int64) string
	Verify(identifier string, timestamp int64, signature string) bool
}

// IPNService builds, delivers and mirrors merchant notifications.
// Delivery is best-effort: failures are logged and swallowed, never
// surfaced to the caller and never retried.
type IPNService interface {
	Notify(ctx context.Context, trx *domain.Transaction)
}

// InitiateRequest holds validated input for payment initiation.
type InitiateRequest struct {
	PublicKey         string
	Amount            decimal.Decimal
	Currency          string
	PaymentMethodType string
	Customer          domain.Customer
	CardNumber        string
	CardExpiryMonth   string
	CardExpiryYear    string // 2-digit, normalized by the service
	CardCVV           string
	CardHolder        string
	BillingAddress    domain.BillingAddress
	DeviceFingerprint string
	Details           string
	Identifier        string
	IPNURL            string
	SuccessURL        string
	CancelURL         string
	SiteName          string
}

// InitiateResult is the outcome of a successful initiation.
type InitiateResult struct {
	TransactionID     string
	PaymentStatus     domain.TransactionStatus
	RequiresChallenge bool
	RedirectURL       *string // nil unless a challenge is required
}

// AuthenticateResult is the outcome of a challenge approve/cancel.
type AuthenticateResult struct {
	Status      string // "success" or "cancelled"
	RedirectURL string
}

// StatusResult is the read-only status view of a transaction.
type StatusResult struct {
	PaymentStatus     domain.TransactionStatus
	RequiresChallenge bool
}

// CheckoutService orchestrates the transaction lifecycle: initiation,
// challenge authentication and status queries.
type CheckoutService interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Authenticate(ctx context.Context, trxID, action, otp string) (*AuthenticateResult, error)
	GetStatus(ctx context.Context, publicKey, trxID string) (*StatusResult, error)
	ChallengeContext(ctx context.Context, trxID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
}
