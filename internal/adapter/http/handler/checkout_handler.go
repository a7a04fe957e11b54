package handler

import (
	"sandbox-payment-gateway/internal/adapter/http/dto"
	"sandbox-payment-gateway/internal/core/domain"
	"sandbox-payment-gateway/internal/core/ports"
	"sandbox-payment-gateway/pkg/apperror"
	"sandbox-payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// CheckoutHandler handles the payment lifecycle endpoints.
type CheckoutHandler struct {
	checkoutSvc ports.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutSvc ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc}
}

// Initiate handles POST /api/v1/checkout/initiate.
func (h *CheckoutHandler) Initiate(c *gin.Context) {
	var req dto.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationList(dto.Reasons(err)))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.checkoutSvc.Initiate(c.Request.Context(), ports.InitiateRequest{
		PublicKey:         req.PublicKey,
		Amount:            req.Amount,
		Currency:          req.Currency,
		PaymentMethodType: req.PaymentMethodType,
		Customer: domain.Customer{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
			Mobile:    req.Customer.Mobile,
		},
		CardNumber:      req.Card.Number,
		CardExpiryMonth: req.Card.ExpiryMonth,
		CardExpiryYear:  req.Card.ExpiryYear,
		CardCVV:         req.Card.CVV,
		CardHolder:      req.Card.Holder,
		BillingAddress: domain.BillingAddress{
			Country:    req.BillingAddress.Country,
			Address:    req.BillingAddress.Line1,
			City:       req.BillingAddress.City,
			State:      req.BillingAddress.State,
			PostalCode: req.BillingAddress.PostalCode,
		},
		DeviceFingerprint: req.DeviceFingerprint,
		Details:           req.Details,
		Identifier:        req.Identifier,
		IPNURL:            req.IPNURL,
		SuccessURL:        req.SuccessURL,
		CancelURL:         req.CancelURL,
		SiteName:          req.SiteName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Payment processed"
	if result.RequiresChallenge {
		message = "3-D Secure verification required"
	}
	response.OK(c, dto.InitiateResponse{
		Status:        "success",
		TransactionID: result.TransactionID,
		PaymentStatus: string(result.PaymentStatus),
		Requires3DS:   result.RequiresChallenge,
		RedirectURL:   result.RedirectURL,
		Message:       message,
	})
}

// Challenge handles GET /api/v1/checkout/challenge. It returns the
// context an external challenge UI needs to render the approval page.
func (h *CheckoutHandler) Challenge(c *gin.Context) {
	trxID := c.Query("trx")
	if trxID == "" {
		response.Error(c, apperror.Validation("trx query parameter is required"))
		return
	}

	trx, err := h.checkoutSvc.ChallengeContext(c.Request.Context(), trxID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ChallengeContextResponse{
		Trx:        trx.ID,
		Amount:     trx.Amount.StringFixed(2),
		Currency:   trx.Currency,
		CardNumber: trx.Card.Number,
		CardBrand:  string(trx.Card.Brand),
		SiteName:   trx.SiteName,
	})
}

// Authenticate handles POST /api/v1/checkout/challenge/authenticate.
func (h *CheckoutHandler) Authenticate(c *gin.Context) {
	var req dto.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationList(dto.Reasons(err)))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.checkoutSvc.Authenticate(c.Request.Context(), req.Trx, req.Action, req.OTP)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AuthenticateResponse{
		Status:      result.Status,
		RedirectURL: result.RedirectURL,
	})
}

// Status handles POST /api/v1/checkout/status.
func (h *CheckoutHandler) Status(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationList(dto.Reasons(err)))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.checkoutSvc.GetStatus(c.Request.Context(), req.PublicKey, req.Trx)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Payment processed"
	switch {
	case result.RequiresChallenge:
		message = "3-D Secure verification required"
	case result.PaymentStatus == domain.TransactionStatusFailed:
		message = "Payment failed"
	}
	response.OK(c, dto.StatusResponse{
		Status:        "success",
		PaymentStatus: string(result.PaymentStatus),
		Requires3DS:   result.RequiresChallenge,
		Message:       message,
	})
}

// ListTransactions handles GET /api/v1/transactions, the redacted
// inspection listing.
func (h *CheckoutHandler) ListTransactions(c *gin.Context) {
	trxs, err := h.checkoutSvc.ListTransactions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionSummary, 0, len(trxs))
	for _, trx := range trxs {
		items = append(items, toTransactionSummary(trx))
	}
	response.OK(c, dto.TransactionListResponse{Items: items, Total: len(items)})
}

// toTransactionSummary converts a domain.Transaction to its redacted DTO.
func toTransactionSummary(trx *domain.Transaction) dto.TransactionSummary {
	return dto.TransactionSummary{
		Trx:           trx.ID,
		Identifier:    trx.Identifier,
		Amount:        trx.Amount.StringFixed(2),
		Currency:      trx.Currency,
		PaymentStatus: string(trx.Status),
		Requires3DS:   trx.RequiresChallenge,
		CardNumber:    trx.Card.Number,
		CardBrand:     string(trx.Card.Brand),
		SiteName:      trx.SiteName,
		CreatedAt:     trx.CreatedAt.Format(timeFormat),
		UpdatedAt:     trx.UpdatedAt.Format(timeFormat),
	}
}
