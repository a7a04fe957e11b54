package dto

import "github.com/shopspring/decimal"

// CustomerDTO carries the cardholder contact details of an initiation.
type CustomerDTO struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Mobile    string `json:"mobile" binding:"required,max=20"`
}

// CardDTO carries raw card input. Only a masked form is ever stored or
// echoed back.
type CardDTO struct {
	Number      string `json:"number" binding:"required"`
	ExpiryMonth string `json:"expiry_month" binding:"required"`
	ExpiryYear  string `json:"expiry_year" binding:"required,len=2"`
	CVV         string `json:"cvv" binding:"required"`
	Holder      string `json:"holder" binding:"required,max=100"`
}

// BillingAddressDTO is the billing address block of an initiation.
type BillingAddressDTO struct {
	Line1      string `json:"line1,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country" binding:"required,len=2"`
}

// InitiateRequest is the request body for payment initiation.
type InitiateRequest struct {
	PublicKey         string            `json:"public_key" binding:"required"`
	Amount            decimal.Decimal   `json:"amount" binding:"required"`
	Currency          string            `json:"currency" binding:"required,len=3"`
	PaymentMethodType string            `json:"payment_method_type" binding:"required,eq=card"`
	Customer          CustomerDTO       `json:"customer" binding:"required"`
	Card              CardDTO           `json:"card" binding:"required"`
	BillingAddress    BillingAddressDTO `json:"billing_address" binding:"required"`
	DeviceFingerprint string            `json:"device_fingerprint" binding:"required,max=255"`
	Details           string            `json:"details" binding:"required,max=255"`
	Identifier        string            `json:"identifier" binding:"required,max=100"`
	IPNURL            string            `json:"ipn_url" binding:"required,safe_url"`
	SuccessURL        string            `json:"success_url" binding:"required,safe_url"`
	CancelURL         string            `json:"cancel_url" binding:"required,safe_url"`
	SiteName          string            `json:"site_name" binding:"required,max=100"`
}

// InitiateResponse is the response body for a created payment.
type InitiateResponse struct {
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id"`
	PaymentStatus string  `json:"payment_status"`
	Requires3DS   bool    `json:"requires_3ds"`
	RedirectURL   *string `json:"redirect_url,omitempty"`
	Message       string  `json:"message"`
}

// AuthenticateRequest is the request body for a challenge decision.
type AuthenticateRequest struct {
	Trx    string `json:"trx" binding:"required"`
	Action string `json:"action" binding:"required"`
	OTP    string `json:"otp,omitempty"`
}

// AuthenticateResponse is the response body for a resolved challenge.
type AuthenticateResponse struct {
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url"`
}

// StatusRequest is the request body for a merchant status query.
type StatusRequest struct {
	PublicKey string `json:"public_key" binding:"required"`
	Trx       string `json:"trx" binding:"required"`
}

// StatusResponse is the response body for a status query.
type StatusResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Requires3DS   bool   `json:"requires_3ds"`
	Message       string `json:"message"`
}

// ChallengeContextResponse is the hosted challenge page context. Card
// data is limited to the masked number and brand.
type ChallengeContextResponse struct {
	Trx        string `json:"trx"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	CardNumber string `json:"card_number"`
	CardBrand  string `json:"card_brand"`
	SiteName   string `json:"site_name,omitempty"`
}

// TransactionSummary is the redacted per-transaction view of the
// inspection listing.
type TransactionSummary struct {
	Trx           string `json:"trx"`
	Identifier    string `json:"identifier"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
	Requires3DS   bool   `json:"requires_3ds"`
	CardNumber    string `json:"card_number"`
	CardBrand     string `json:"card_brand"`
	SiteName      string `json:"site_name,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// TransactionListResponse wraps the transaction inspection listing.
type TransactionListResponse struct {
	Items []TransactionSummary `json:"items"`
	Total int                  `json:"total"`
}

// IPNAckResponse acknowledges receipt on the local IPN endpoint.
type IPNAckResponse struct {
	Status string `json:"status"`
}
