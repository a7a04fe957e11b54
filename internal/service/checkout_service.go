package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"sandbox-payment-gateway/internal/core/domain"
	"sandbox-payment-gateway/internal/core/ports"
	"sandbox-payment-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ActionApprove finalizes a challenge as success; any other action cancels.
const ActionApprove = "approve"

// challengePath is the path of the hosted challenge endpoint, appended to
// the configured base URL when building the initiation redirect.
const challengePath = "/api/v1/checkout/challenge"

var cvvRe = regexp.MustCompile(`^[0-9]{3,4}$`)

// CheckoutServiceImpl implements ports.CheckoutService: the transaction
// state machine from initiation through optional challenge to terminal
// status.
type CheckoutServiceImpl struct {
	trxStore     ports.TransactionStore
	ipnSvc       ports.IPNService
	baseURL      string
	challengeOTP string
	log          zerolog.Logger
}

// NewCheckoutService creates a new CheckoutServiceImpl.
func NewCheckoutService(
	trxStore ports.TransactionStore,
	ipnSvc ports.IPNService,
	baseURL string,
	challengeOTP string,
	log zerolog.Logger,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		trxStore:     trxStore,
		ipnSvc:       ipnSvc,
		baseURL:      baseURL,
		challengeOTP: challengeOTP,
		log:          log,
	}
}

// Initiate validates the request, runs the test-card policy and creates the
// transaction. Challenged transactions start pending with a redirect to the
// challenge endpoint; all others are created terminal with a nil redirect.
func (s *CheckoutServiceImpl) Initiate(ctx context.Context, req ports.InitiateRequest) (*ports.InitiateResult, error) {
	clean := CleanCardNumber(req.CardNumber)
	month, year, reasons := validateInitiate(req, clean)
	if len(reasons) > 0 {
		return nil, apperror.ValidationList(reasons)
	}

	outcome := DecideOutcome(clean)
	if outcome == OutcomeRejected {
		return nil, apperror.ErrCardRejected()
	}

	now := time.Now().UTC()
	trx := &domain.Transaction{
		ID:        uuid.New().String(),
		PublicKey: req.PublicKey,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Customer:  req.Customer,
		Card: domain.Card{
			Number:      domain.MaskCardNumber(clean),
			Brand:       DetectBrand(clean),
			ExpiryMonth: month,
			ExpiryYear:  year,
			Holder:      req.CardHolder,
		},
		BillingAddress:    req.BillingAddress,
		DeviceFingerprint: req.DeviceFingerprint,
		Details:           req.Details,
		Identifier:        req.Identifier,
		IPNURL:            req.IPNURL,
		SuccessURL:        req.SuccessURL,
		CancelURL:         req.CancelURL,
		SiteName:          req.SiteName,
		Status:            domain.TransactionStatusSuccess,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if outcome == OutcomeChallengeRequired {
		trx.Status = domain.TransactionStatusPending
		trx.RequiresChallenge = true
		trx.ChallengeCode = s.challengeOTP
	}

	if err := s.trxStore.Create(ctx, trx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	result := &ports.InitiateResult{
		TransactionID:     trx.ID,
		PaymentStatus:     trx.Status,
		RequiresChallenge: trx.RequiresChallenge,
	}
	// Invariant: only challenged transactions carry a redirect target.
	if trx.RequiresChallenge {
		redirect := s.buildChallengeRedirect(trx)
		result.RedirectURL = &redirect
	}

	s.log.Info().
		Str("trx_id", trx.ID).
		Str("identifier", trx.Identifier).
		Str("status", string(trx.Status)).
		Bool("requires_challenge", trx.RequiresChallenge).
		Msg("transaction initiated")

	return result, nil
}

// Authenticate resolves a pending challenge. Approve with the matching code
// transitions to success; any other action transitions to failed. Both
// branches fire exactly one notification attempt before returning. A
// transaction that already reached a terminal state is a caller error and
// does not re-fire the notification.
func (s *CheckoutServiceImpl) Authenticate(ctx context.Context, trxID, action, otp string) (*ports.AuthenticateResult, error) {
	updated, err := s.trxStore.Update(ctx, trxID, func(trx *domain.Transaction) error {
		if trx.IsTerminal() {
			return apperror.ErrTransactionFinalized()
		}
		if action == ActionApprove {
			if trx.ChallengeCode != "" && otp != trx.ChallengeCode {
				return apperror.ErrInvalidChallengeCode()
			}
			trx.Status = domain.TransactionStatusSuccess
		} else {
			trx.Status = domain.TransactionStatusFailed
		}
		trx.RequiresChallenge = false
		trx.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.ErrTransactionNotFound()
	}

	// One best-effort delivery attempt, awaited before the response returns.
	s.ipnSvc.Notify(ctx, updated)

	result := &ports.AuthenticateResult{}
	if updated.Status == domain.TransactionStatusSuccess {
		result.Status = "success"
		result.RedirectURL = appendQuery(updated.SuccessURL, updated.ID, string(updated.Status))
	} else {
		result.Status = "cancelled"
		result.RedirectURL = appendQuery(updated.CancelURL, updated.ID, string(updated.Status))
	}

	s.log.Info().
		Str("trx_id", updated.ID).
		Str("action", action).
		Str("status", string(updated.Status)).
		Msg("challenge authenticated")

	return result, nil
}

// GetStatus is a read-only status lookup authorized by the public key used
// at initiation.
func (s *CheckoutServiceImpl) GetStatus(ctx context.Context, publicKey, trxID string) (*ports.StatusResult, error) {
	trx, err := s.trxStore.GetByID(ctx, trxID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if trx == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	if trx.PublicKey != publicKey {
		return nil, apperror.ErrPublicKeyMismatch()
	}
	return &ports.StatusResult{
		PaymentStatus:     trx.Status,
		RequiresChallenge: trx.RequiresChallenge,
	}, nil
}

// ChallengeContext returns the transaction backing the external challenge UI.
func (s *CheckoutServiceImpl) ChallengeContext(ctx context.Context, trxID string) (*domain.Transaction, error) {
	trx, err := s.trxStore.GetByID(ctx, trxID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if trx == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	return trx, nil
}

// ListTransactions returns all transactions. Card numbers are already
// masked at storage time, so the listing is safe to expose for inspection.
func (s *CheckoutServiceImpl) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	trxs, err := s.trxStore.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return trxs, nil
}

// buildChallengeRedirect points the shopper at the hosted challenge
// endpoint, carrying the merchant return targets and the opaque-encoded
// one-time code.
func (s *CheckoutServiceImpl) buildChallengeRedirect(trx *domain.Transaction) string {
	q := url.Values{}
	q.Set("trx", trx.ID)
	q.Set("success_url", trx.SuccessURL)
	q.Set("cancel_url", trx.CancelURL)
	q.Set("otp", base64.RawURLEncoding.EncodeToString([]byte(trx.ChallengeCode)))
	return s.baseURL + challengePath + "?" + q.Encode()
}

// appendQuery adds trx and status query parameters to a merchant URL,
// preserving any query it already carries.
func appendQuery(rawURL, trxID, status string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		q := url.Values{}
		q.Set("trx", trxID)
		q.Set("status", status)
		return rawURL + "?" + q.Encode()
	}
	q := u.Query()
	q.Set("trx", trxID)
	q.Set("status", status)
	u.RawQuery = q.Encode()
	return u.String()
}

// validateInitiate performs the service-level checks that gin binding
// cannot express: amount positivity, card semantics and expiry
// normalization. Returns the parsed expiry alongside the reason list.
func validateInitiate(req ports.InitiateRequest, cleanNumber string) (month, year int, reasons []string) {
	if req.PublicKey == "" {
		reasons = append(reasons, "public_key is required")
	}
	if !req.Amount.IsPositive() {
		reasons = append(reasons, "amount must be positive")
	}
	if len(req.Currency) != 3 {
		reasons = append(reasons, "currency must be a 3-letter code")
	}
	if req.PaymentMethodType != "card" {
		reasons = append(reasons, "payment_method_type must be \"card\"")
	}

	if req.Customer.FirstName == "" {
		reasons = append(reasons, "customer.first_name is required")
	}
	if req.Customer.LastName == "" {
		reasons = append(reasons, "customer.last_name is required")
	}
	if req.Customer.Email == "" {
		reasons = append(reasons, "customer.email is required")
	}
	if req.Customer.Mobile == "" {
		reasons = append(reasons, "customer.mobile is required")
	}

	if !IsFormatValid(cleanNumber) {
		reasons = append(reasons, "card.number must be 12-19 digits")
	} else if !IsSandboxTestCard(cleanNumber) && !IsLuhnValid(cleanNumber) {
		reasons = append(reasons, "card.number failed the Luhn check")
	}

	var monthErr, yearErr bool
	month, monthErr = parseIntField(req.CardExpiryMonth)
	year, yearErr = parseIntField(req.CardExpiryYear)
	switch {
	case monthErr || yearErr || len(req.CardExpiryYear) != 2:
		reasons = append(reasons, "card expiry must be a numeric month and 2-digit year")
	case month < 1 || month > 12:
		reasons = append(reasons, "card expiry month must be between 1 and 12")
	default:
		year += 2000 // normalize to 4 digits
		if !IsExpiryValid(month, year) {
			reasons = append(reasons, "card is expired")
		}
	}

	if !cvvRe.MatchString(req.CardCVV) {
		reasons = append(reasons, "card.cvv must be 3 or 4 digits")
	}
	if req.CardHolder == "" {
		reasons = append(reasons, "card.holder is required")
	}
	if req.BillingAddress.Country == "" {
		reasons = append(reasons, "billing_address.country is required")
	}
	if req.DeviceFingerprint == "" {
		reasons = append(reasons, "device_fingerprint is required")
	}
	if req.Details == "" {
		reasons = append(reasons, "details is required")
	}
	if req.SiteName == "" {
		reasons = append(reasons, "site_name is required")
	}
	return month, year, reasons
}

func parseIntField(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err != nil
}
