package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sandbox-payment-gateway/internal/core/domain"
	"sandbox-payment-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// ipnDataType is the only notification kind the sandbox emits.
const ipnDataType = "checkout"

// ipnTimestampLayout formats the transaction creation time inside the payload.
const ipnTimestampLayout = "2006-01-02 15:04:05"

// HTTPClient interface for testability. The injected client carries the
// fixed delivery timeout.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// IPNServiceImpl implements ports.IPNService: it builds the signed payload,
// makes a single best-effort delivery attempt to the merchant's ipn_url and
// mirrors the payload locally regardless of the delivery outcome.
type IPNServiceImpl struct {
	notifStore ports.NotificationStore
	sigSvc     ports.SignatureService
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewIPNService creates a new IPNServiceImpl.
func NewIPNService(
	notifStore ports.NotificationStore,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) *IPNServiceImpl {
	return &IPNServiceImpl{
		notifStore: notifStore,
		sigSvc:     sigSvc,
		httpClient: httpClient,
		log:        log,
	}
}

// Notify delivers exactly one notification attempt for a finalized
// transaction and mirrors the payload. Delivery failure is logged and
// swallowed; it never rolls back the transaction's state change.
func (s *IPNServiceImpl) Notify(ctx context.Context, trx *domain.Transaction) {
	ts := time.Now().Unix()
	payload := domain.IPNPayload{
		Identifier: trx.Identifier,
		Status:     string(trx.Status),
		Signature:  s.sigSvc.Sign(trx.Identifier, ts),
		Timestamp:  ts,
		Data: domain.IPNData{
			TrxID:     trx.ID,
			Amount:    trx.Amount,
			Currency:  trx.Currency,
			Type:      ipnDataType,
			Timestamp: trx.CreatedAt.UTC().Format(ipnTimestampLayout),
		},
	}

	s.deliver(ctx, trx.IPNURL, payload, trx.ID)

	rec := &domain.NotificationRecord{
		TrxID:      trx.ID,
		Identifier: trx.Identifier,
		Payload:    payload,
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.notifStore.Put(ctx, rec); err != nil {
		s.log.Error().Err(err).Str("trx_id", trx.ID).Msg("ipn: failed to mirror notification")
	}
}

// deliver POSTs the payload once. A non-2xx response is logged but treated
// as delivered; there is no retry or dead-lettering.
func (s *IPNServiceImpl) deliver(ctx context.Context, url string, payload domain.IPNPayload, trxID string) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("trx_id", trxID).Msg("ipn: failed to marshal payload")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.log.Error().Err(err).Str("trx_id", trxID).Str("ipn_url", url).Msg("ipn: failed to create request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("trx_id", trxID).Str("ipn_url", url).Msg("ipn: delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.log.Info().Str("trx_id", trxID).Int("status", resp.StatusCode).Msg("ipn: delivered")
		return
	}
	s.log.Warn().Str("trx_id", trxID).Int("status", resp.StatusCode).Msg("ipn: non-2xx response, treated as delivered")
}
