package handler

import (
	"sandbox-payment-gateway/internal/adapter/http/dto"
	"sandbox-payment-gateway/internal/core/domain"
	"sandbox-payment-gateway/internal/core/ports"
	"sandbox-payment-gateway/pkg/apperror"
	"sandbox-payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// IPNHandler serves the built-in notification receiver and the local
// notification mirror.
type IPNHandler struct {
	notifStore ports.NotificationStore
	log        zerolog.Logger
}

// NewIPNHandler creates a new IPNHandler.
func NewIPNHandler(notifStore ports.NotificationStore, log zerolog.Logger) *IPNHandler {
	return &IPNHandler{notifStore: notifStore, log: log}
}

// Receive handles POST /api/v1/ipn. It is a default target merchants can
// point ipn_url at during testing; it logs the payload and acknowledges.
func (h *IPNHandler) Receive(c *gin.Context) {
	var payload domain.IPNPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, apperror.Validation("request body is not valid JSON"))
		return
	}

	h.log.Info().
		Str("identifier", payload.Identifier).
		Str("trx_id", payload.Data.TrxID).
		Str("status", payload.Status).
		Msg("ipn received")

	response.OK(c, dto.IPNAckResponse{Status: "received"})
}

// Lookup handles GET /api/v1/ipn/:key. The key is either a transaction
// id or a merchant identifier; the reserved key "list" returns every
// mirrored notification.
func (h *IPNHandler) Lookup(c *gin.Context) {
	key := c.Param("key")
	if key == "list" {
		recs, err := h.notifStore.List(c.Request.Context())
		if err != nil {
			response.Error(c, apperror.InternalError(err))
			return
		}
		response.OK(c, recs)
		return
	}

	rec, err := h.notifStore.Get(c.Request.Context(), key)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if rec == nil {
		response.Error(c, apperror.ErrTransactionNotFound())
		return
	}
	response.OK(c, rec)
}
