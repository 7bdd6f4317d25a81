package dto

import (
	"testing"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := IssueRequest{
		To:               "  user1  ",
		CreditAmount:     " 100 ",
		Facility:         " Facility A ",
		VerificationHash: "hash123\n",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "user1", req.To)
	assert.Equal(t, "100", req.CreditAmount)
	assert.Equal(t, "Facility A", req.Facility)
	assert.Equal(t, "hash123", req.VerificationHash)
}

func TestSanitizeStruct_KeepsMarkupVerbatim(t *testing.T) {
	req := IssueRequest{Facility: "Plant <North> & Co"}
	SanitizeStruct(&req)
	assert.Equal(t, "Plant <North> & Co", req.Facility)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	from := "  user1  "
	req := TransferRequest{To: "user2", Amount: "5", From: &from}
	SanitizeStruct(&req)
	assert.Equal(t, "user1", *req.From)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := TransferRequest{To: "user2", Amount: "5"}
	SanitizeStruct(&req)
	assert.Nil(t, req.From)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"hash123",
		"0xabcdef0123",
		"cert:2026-05.01",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"hash 123",  // space
		"hash<123>", // angle brackets
		"hash;DROP", // semicolon
		"",          // empty
		"hash\n123", // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestAmountValidator(t *testing.T) {
	tests := []struct {
		amount string
		valid  bool
	}{
		{"100", true},
		{"0", true},
		{"-5", true}, // rejected later by the ledger
		{"1.5", true},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", true},
		{"", false},
		{"abc", false},
		{"1e", false},
	}
	for _, tt := range tests {
		err := binding.Validator.ValidateStruct(&RetireRequest{Amount: tt.amount})
		if tt.valid {
			assert.NoError(t, err, "amount %q", tt.amount)
		} else {
			assert.Error(t, err, "amount %q", tt.amount)
		}
	}
}

func TestIssueRequest_Binding(t *testing.T) {
	valid := IssueRequest{
		To:               "user1",
		CreditAmount:     "100",
		Facility:         "Facility A",
		HydrogenAmount:   "1000",
		VerificationHash: "hash123",
	}
	require.NoError(t, binding.Validator.ValidateStruct(&valid))

	missing := valid
	missing.Facility = ""
	assert.Error(t, binding.Validator.ValidateStruct(&missing))

	badHash := valid
	badHash.VerificationHash = "not a hash"
	assert.Error(t, binding.Validator.ValidateStruct(&badHash))
}

// --- Response conversion ---

func TestNewBatchResponse(t *testing.T) {
	issued := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	b := &domain.CreditBatch{
		ID: 7, Owner: "user1", ProductionFacility: "Facility A",
		HydrogenAmount: decimal.NewFromInt(1000), CreditAmount: decimal.NewFromInt(40), IssuedAmount: decimal.NewFromInt(100),
		VerificationHash: "hash123", Certifier: "certifier", IssuanceDate: issued,
	}

	resp := NewBatchResponse(b)
	assert.Equal(t, "40", resp.CreditAmount)
	assert.Equal(t, "100", resp.IssuedAmount)
	assert.Equal(t, "2026-05-01T09:00:00Z", resp.IssuanceDate)
	assert.Nil(t, resp.RetiredAt)

	retired := issued.Add(time.Hour)
	b.IsRetired, b.RetiredAt = true, &retired
	resp = NewBatchResponse(b)
	require.NotNil(t, resp.RetiredAt)
	assert.Equal(t, "2026-05-01T10:00:00Z", *resp.RetiredAt)
}

func TestNewTransactionResponses_HydrogenOnlyOnIssue(t *testing.T) {
	recs := []domain.TransactionRecord{
		{Seq: 1, Kind: domain.RecordIssue, BatchID: 1, Amount: decimal.NewFromInt(100), HydrogenAmount: decimal.NewFromInt(1000)},
		{Seq: 2, Kind: domain.RecordTransfer, BatchID: 1, Amount: decimal.NewFromInt(60)},
	}
	out := NewTransactionResponses(recs)
	require.Len(t, out, 2)
	assert.Equal(t, "1000", out[0].HydrogenAmount)
	assert.Empty(t, out[1].HydrogenAmount)
	assert.Equal(t, string(domain.RecordTransfer), out[1].Type)
	assert.NotNil(t, NewTransactionResponses(nil))
}
