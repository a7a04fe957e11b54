package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// HMACSignatureService implements ports.SignatureService for IPN payloads.
// The signed message is the merchant identifier concatenated with the
// unix-seconds timestamp; the result is hex-encoded upper-case.
type HMACSignatureService struct {
	secret string
}

// NewHMACSignatureService creates a signature service keyed by the shared
// sandbox secret.
func NewHMACSignatureService(secret string) *HMACSignatureService {
	return &HMACSignatureService{secret: secret}
}

// Sign computes HMAC-SHA256(identifier + timestamp) with the sandbox secret.
func (s *HMACSignatureService) Sign(identifier string, timestamp int64) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(identifier + strconv.FormatInt(timestamp, 10)))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// Verify checks a signature in constant time.
func (s *HMACSignatureService) Verify(identifier string, timestamp int64, signature string) bool {
	expected := s.Sign(identifier, timestamp)
	return hmac.Equal([]byte(expected), []byte(signature))
}
