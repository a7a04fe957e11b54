package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"sandbox-payment-gateway/internal/adapter/storage/memory"
	"sandbox-payment-gateway/internal/core/domain"
	"sandbox-payment-gateway/internal/core/ports"
	"sandbox-payment-gateway/internal/core/ports/mocks"
	"sandbox-payment-gateway/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testBaseURL = "http://localhost:8080"
	testOTP     = "666666"
)

// futureExpiryYear returns a 2-digit year two years ahead.
func futureExpiryYear() string {
	return fmt.Sprintf("%02d", (time.Now().Year()+2)%100)
}

func validInitiateReq(cardNumber string) ports.InitiateRequest {
	return ports.InitiateRequest{
		PublicKey:         "pk_sandbox_123",
		Amount:            decimal.NewFromInt(1500),
		Currency:          "USD",
		PaymentMethodType: "card",
		Customer: domain.Customer{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Mobile:    "+15550001111",
		},
		CardNumber:        cardNumber,
		CardExpiryMonth:   "12",
		CardExpiryYear:    futureExpiryYear(),
		CardCVV:           "123",
		CardHolder:        "JANE DOE",
		BillingAddress:    domain.BillingAddress{Country: "US"},
		DeviceFingerprint: "fp-abc123",
		Details:           "Order #42",
		Identifier:        "order-42",
		IPNURL:            "https://merchant.test/ipn",
		SuccessURL:        "https://merchant.test/ok",
		CancelURL:         "https://merchant.test/cancel",
		SiteName:          "Test Shop",
	}
}

func newCheckoutService(t *testing.T, ipnSvc ports.IPNService) (*CheckoutServiceImpl, *memory.TransactionStore) {
	t.Helper()
	store := memory.NewTransactionStore()
	svc := NewCheckoutService(store, ipnSvc, testBaseURL, testOTP, newTestLogger())
	return svc, store
}

func TestInitiate_CanonicalTestCard_InstantSuccess(t *testing.T) {
	svc, store := newCheckoutService(t, nil)

	result, err := svc.Initiate(context.Background(), validInitiateReq("5356222233334444"))
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionStatusSuccess, result.PaymentStatus)
	assert.False(t, result.RequiresChallenge)
	assert.Nil(t, result.RedirectURL, "non-challenged outcomes never carry a redirect")

	trx, err := store.GetByID(context.Background(), result.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, trx)
	assert.True(t, trx.IsTerminal(), "non-challenged transactions are created terminal")
	assert.Empty(t, trx.ChallengeCode)
}

func TestInitiate_Suffix468_InstantSuccessNoChallenge(t *testing.T) {
	svc, _ := newCheckoutService(t, nil)

	result, err := svc.Initiate(context.Background(), validInitiateReq("4024007198964468"))
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionStatusSuccess, result.PaymentStatus)
	assert.False(t, result.RequiresChallenge)
	assert.Nil(t, result.RedirectURL)
}

func TestInitiate_Suffix579_ChallengeRequired(t *testing.T) {
	svc, store := newCheckoutService(t, nil)

	result, err := svc.Initiate(context.Background(), validInitiateReq("4556737586899579"))
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionStatusPending, result.PaymentStatus)
	assert.True(t, result.RequiresChallenge)
	require.NotNil(t, result.RedirectURL)

	u, err := url.Parse(*result.RedirectURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(*result.RedirectURL, testBaseURL+"/api/v1/checkout/challenge"))
	q := u.Query()
	assert.Equal(t, result.TransactionID, q.Get("trx"))
	assert.Equal(t, "https://merchant.test/ok", q.Get("success_url"))
	assert.Equal(t, "https://merchant.test/cancel", q.Get("cancel_url"))

	decoded, err := base64.RawURLEncoding.DecodeString(q.Get("otp"))
	require.NoError(t, err)
	assert.Equal(t, testOTP, string(decoded), "one-time code is opaque-encoded in the redirect")

	trx, err := store.GetByID(context.Background(), result.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, trx.Status)
	assert.True(t, trx.RequiresChallenge)
	assert.Equal(t, testOTP, trx.ChallengeCode)
}

func TestInitiate_MasksCardNumber(t *testing.T) {
	svc, store := newCheckoutService(t, nil)

	result, err := svc.Initiate(context.Background(), validInitiateReq("5356 2222 3333 4444"))
	require.NoError(t, err)

	trx, err := store.GetByID(context.Background(), result.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, "535622******4444", trx.Card.Number)
	assert.Equal(t, domain.BrandMastercard, trx.Card.Brand)
	assert.NotContains(t, trx.Card.Number, "2222")
}

func TestInitiate_NormalizesExpiryYear(t *testing.T) {
	svc, store := newCheckoutService(t, nil)

	req := validInitiateReq("5356222233334444")
	req.CardExpiryYear = futureExpiryYear()

	result, err := svc.Initiate(context.Background(), req)
	require.NoError(t, err)

	trx, _ := store.GetByID(context.Background(), result.TransactionID)
	assert.Equal(t, time.Now().Year()+2, trx.Card.ExpiryYear, "2-digit year normalized to 4 digits")
}

func TestInitiate_UnmatchedCard_Rejected(t *testing.T) {
	svc, store := newCheckoutService(t, nil)

	// Luhn-valid but matches no sandbox test pattern.
	_, err := svc.Initiate(context.Background(), validInitiateReq("4111111111111111"))
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_002", appErr.Code)

	all, _ := store.List(context.Background())
	assert.Empty(t, all, "no transaction is created for a rejected card")
}

func TestInitiate_LuhnFailure_NoTransaction(t *testing.T) {
	svc, store := newCheckoutService(t, nil)

	_, err := svc.Initiate(context.Background(), validInitiateReq("4111111111111112"))
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
	assert.Contains(t, strings.Join(appErr.Reasons, " "), "Luhn")

	all, _ := store.List(context.Background())
	assert.Empty(t, all)
}

func TestInitiate_TestCardBypassesLuhnButNotFormat(t *testing.T) {
	svc, _ := newCheckoutService(t, nil)

	// Ends in the challenge suffix but only 11 digits: format check still applies.
	req := validInitiateReq("12345678579")
	_, err := svc.Initiate(context.Background(), req)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestInitiate_FieldValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ports.InitiateRequest)
		wantMsg string
	}{
		{"missing public key", func(r *ports.InitiateRequest) { r.PublicKey = "" }, "public_key"},
		{"zero amount", func(r *ports.InitiateRequest) { r.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(r *ports.InitiateRequest) { r.Amount = decimal.NewFromInt(-5) }, "amount"},
		{"bad currency", func(r *ports.InitiateRequest) { r.Currency = "US" }, "currency"},
		{"wrong payment method", func(r *ports.InitiateRequest) { r.PaymentMethodType = "wallet" }, "payment_method_type"},
		{"bad cvv", func(r *ports.InitiateRequest) { r.CardCVV = "12" }, "cvv"},
		{"missing holder", func(r *ports.InitiateRequest) { r.CardHolder = "" }, "holder"},
		{"missing billing country", func(r *ports.InitiateRequest) { r.BillingAddress.Country = "" }, "country"},
		{"missing customer mobile", func(r *ports.InitiateRequest) { r.Customer.Mobile = "" }, "customer.mobile"},
		{"missing customer email", func(r *ports.InitiateRequest) { r.Customer.Email = "" }, "customer.email"},
		{"missing device fingerprint", func(r *ports.InitiateRequest) { r.DeviceFingerprint = "" }, "device_fingerprint"},
		{"missing details", func(r *ports.InitiateRequest) { r.Details = "" }, "details"},
		{"missing site name", func(r *ports.InitiateRequest) { r.SiteName = "" }, "site_name"},
		{"month thirteen", func(r *ports.InitiateRequest) { r.CardExpiryMonth = "13" }, "expiry month must be between 1 and 12"},
		{"month zero", func(r *ports.InitiateRequest) { r.CardExpiryMonth = "0" }, "expiry month must be between 1 and 12"},
		{"non-numeric expiry", func(r *ports.InitiateRequest) { r.CardExpiryYear = "xy" }, "expiry"},
		{"expired card", func(r *ports.InitiateRequest) {
			r.CardExpiryMonth = "01"
			r.CardExpiryYear = fmt.Sprintf("%02d", (time.Now().Year()-1)%100)
		}, "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newCheckoutService(t, nil)

			req := validInitiateReq("5356222233334444")
			tt.mutate(&req)

			_, err := svc.Initiate(context.Background(), req)
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VAL_001", appErr.Code)
			assert.Contains(t, strings.Join(appErr.Reasons, " "), tt.wantMsg)

			all, _ := store.List(context.Background())
			assert.Empty(t, all, "validation failures must not create transactions")
		})
	}
}

func TestInitiate_RequiresFullMetadataBlock(t *testing.T) {
	svc, store := newCheckoutService(t, nil)

	// All four optional-looking fields are mandatory at initiation.
	req := validInitiateReq("5356222233334444")
	req.DeviceFingerprint = ""
	req.Details = ""
	req.SiteName = ""
	req.Customer.Mobile = ""

	_, err := svc.Initiate(context.Background(), req)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
	joined := strings.Join(appErr.Reasons, " ")
	assert.Contains(t, joined, "device_fingerprint is required")
	assert.Contains(t, joined, "details is required")
	assert.Contains(t, joined, "site_name is required")
	assert.Contains(t, joined, "customer.mobile is required")

	all, _ := store.List(context.Background())
	assert.Empty(t, all, "incomplete initiations must not create transactions")
}

func initiateChallenge(t *testing.T, svc *CheckoutServiceImpl) string {
	t.Helper()
	result, err := svc.Initiate(context.Background(), validInitiateReq("4556737586899579"))
	require.NoError(t, err)
	return result.TransactionID
}

func TestAuthenticate_ApproveWithCorrectOTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIPN := mocks.NewMockIPNService(ctrl)
	svc, store := newCheckoutService(t, mockIPN)
	trxID := initiateChallenge(t, svc)

	mockIPN.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	result, err := svc.Authenticate(context.Background(), trxID, "approve", testOTP)
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	u, err := url.Parse(result.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, "merchant.test", u.Host)
	assert.Equal(t, "/ok", u.Path)
	assert.Equal(t, trxID, u.Query().Get("trx"))
	assert.Equal(t, "success", u.Query().Get("status"))

	trx, _ := store.GetByID(context.Background(), trxID)
	assert.Equal(t, domain.TransactionStatusSuccess, trx.Status)
	assert.False(t, trx.RequiresChallenge)
	assert.False(t, trx.UpdatedAt.Equal(trx.CreatedAt))
}

func TestAuthenticate_WrongOTP_StaysPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIPN := mocks.NewMockIPNService(ctrl)
	svc, store := newCheckoutService(t, mockIPN)
	trxID := initiateChallenge(t, svc)

	// No Notify expectation: a failed OTP check must not fire a notification.

	_, err := svc.Authenticate(context.Background(), trxID, "approve", "000000")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRX_003", appErr.Code)

	trx, _ := store.GetByID(context.Background(), trxID)
	assert.Equal(t, domain.TransactionStatusPending, trx.Status)
	assert.True(t, trx.RequiresChallenge)
}

func TestAuthenticate_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIPN := mocks.NewMockIPNService(ctrl)
	svc, store := newCheckoutService(t, mockIPN)
	trxID := initiateChallenge(t, svc)

	mockIPN.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	result, err := svc.Authenticate(context.Background(), trxID, "cancel", "")
	require.NoError(t, err)

	assert.Equal(t, "cancelled", result.Status)
	u, err := url.Parse(result.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, "/cancel", u.Path)
	assert.Equal(t, "failed", u.Query().Get("status"))

	trx, _ := store.GetByID(context.Background(), trxID)
	assert.Equal(t, domain.TransactionStatusFailed, trx.Status)
	assert.False(t, trx.RequiresChallenge)
}

func TestAuthenticate_UnknownTransaction(t *testing.T) {
	svc, _ := newCheckoutService(t, nil)

	_, err := svc.Authenticate(context.Background(), "nope", "approve", testOTP)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRX_001", appErr.Code)
}

func TestAuthenticate_TerminalGuardBlocksSecondCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIPN := mocks.NewMockIPNService(ctrl)
	svc, _ := newCheckoutService(t, mockIPN)
	trxID := initiateChallenge(t, svc)

	// Exactly one notification across both calls.
	mockIPN.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	_, err := svc.Authenticate(context.Background(), trxID, "approve", testOTP)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), trxID, "approve", testOTP)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRX_004", appErr.Code)
}

func TestGetStatus(t *testing.T) {
	svc, _ := newCheckoutService(t, nil)
	trxID := initiateChallenge(t, svc)

	status, err := svc.GetStatus(context.Background(), "pk_sandbox_123", trxID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, status.PaymentStatus)
	assert.True(t, status.RequiresChallenge)
}

func TestGetStatus_UnknownTransaction(t *testing.T) {
	svc, _ := newCheckoutService(t, nil)

	_, err := svc.GetStatus(context.Background(), "pk_sandbox_123", "nope")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRX_001", appErr.Code)
}

func TestGetStatus_PublicKeyMismatch(t *testing.T) {
	svc, _ := newCheckoutService(t, nil)
	trxID := initiateChallenge(t, svc)

	_, err := svc.GetStatus(context.Background(), "pk_other", trxID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRX_002", appErr.Code)
}

func TestChallengeContext(t *testing.T) {
	svc, _ := newCheckoutService(t, nil)
	trxID := initiateChallenge(t, svc)

	trx, err := svc.ChallengeContext(context.Background(), trxID)
	require.NoError(t, err)
	assert.Equal(t, trxID, trx.ID)

	_, err = svc.ChallengeContext(context.Background(), "nope")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRX_001", appErr.Code)
}

func TestListTransactions(t *testing.T) {
	svc, _ := newCheckoutService(t, nil)
	initiateChallenge(t, svc)
	_, err := svc.Initiate(context.Background(), validInitiateReq("5356222233334444"))
	require.NoError(t, err)

	all, err := svc.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, trx := range all {
		assert.Contains(t, trx.Card.Number, "*", "listed card numbers stay masked")
	}
}
