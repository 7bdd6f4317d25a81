package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := `{"type":"CreditsIssued","seq":1}`

	signature := svc.Sign("whsec", payload)

	assert.Regexp(t, `^[0-9a-f]{64}$`, signature)
	assert.True(t, svc.Verify("whsec", payload, signature))
	assert.False(t, svc.Verify("other", payload, signature))
	assert.False(t, svc.Verify("whsec", payload+" ", signature))
	assert.False(t, svc.Verify("whsec", payload, "invalidsignature"))
}

func TestSignedHeaderValue_RoundTrip(t *testing.T) {
	svc := NewHMACSignatureService()
	body := []byte(`{"type":"CreditsRetired"}`)
	ts := time.Unix(1760000000, 0)

	header := SignedHeaderValue(svc, "whsec", ts, body)
	assert.Regexp(t, `^t=1760000000,v1=[0-9a-f]{64}$`, header)

	require.NoError(t, svc.VerifyHeaderValue("whsec", header, body, ts.Add(time.Minute), 5*time.Minute))
}

func TestVerifyHeaderValue_Rejects(t *testing.T) {
	svc := NewHMACSignatureService()
	body := []byte(`{"seq":9}`)
	ts := time.Unix(1760000000, 0)
	header := SignedHeaderValue(svc, "whsec", ts, body)

	tests := []struct {
		name   string
		secret string
		header string
		body   []byte
		now    time.Time
	}{
		{"wrong secret", "nope", header, body, ts},
		{"tampered body", "whsec", header, []byte(`{"seq":10}`), ts},
		{"stale", "whsec", header, body, ts.Add(time.Hour)},
		{"malformed", "whsec", "garbage", body, ts},
		{"bad timestamp", "whsec", "t=abc,v1=00", body, ts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, svc.VerifyHeaderValue(tt.secret, tt.header, tt.body, tt.now, 5*time.Minute))
		})
	}
}
