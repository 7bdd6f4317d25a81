package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hydrogen-credit-ledger/internal/core/ports"
)

// SignatureHeader carries the webhook signature: "t=<unix>,v1=<hex hmac>".
// The MAC covers "<unix>.<body>" so a captured body cannot be replayed under
// a fresh timestamp.
const SignatureHeader = "X-Ledger-Signature"

// HMACSignatureService implements ports.SignatureService using HMAC-SHA256.
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA256 signature service.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign returns the lowercase hex HMAC-SHA256 of payload under secretKey.
func (s *HMACSignatureService) Sign(secretKey string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signature in constant time.
func (s *HMACSignatureService) Verify(secretKey string, payload string, signature string) bool {
	expected := s.Sign(secretKey, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignedHeaderValue builds the SignatureHeader value for body sent at ts.
func SignedHeaderValue(sig ports.SignatureService, secretKey string, ts time.Time, body []byte) string {
	unix := strconv.FormatInt(ts.Unix(), 10)
	return "t=" + unix + ",v1=" + sig.Sign(secretKey, unix+"."+string(body))
}

// VerifyHeaderValue checks a SignatureHeader value against body. Signatures
// older than tolerance relative to now are rejected.
func (s *HMACSignatureService) VerifyHeaderValue(secretKey, header string, body []byte, now time.Time, tolerance time.Duration) error {
	var unix, mac string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			unix = v
		case "v1":
			mac = v
		}
	}
	if unix == "" || mac == "" {
		return fmt.Errorf("malformed signature header")
	}
	ts, err := strconv.ParseInt(unix, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp: %w", err)
	}
	if age := now.Sub(time.Unix(ts, 0)); age > tolerance || age < -tolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}
	if !s.Verify(secretKey, unix+"."+string(body), mac) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}
