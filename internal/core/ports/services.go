package ports

import (
	"context"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// --- Service Ports (Business Logic) ---

// LedgerService is the credit lifecycle state machine together with its
// access control. Mutations are serialized; queries never block writers for
// longer than a state copy.
type LedgerService interface {
	IssueCredits(ctx context.Context, req IssueRequest) (domain.BatchID, error)
	Transfer(ctx context.Context, req TransferRequest) (decimal.Decimal, error)
	RetireCredits(ctx context.Context, req RetireRequest) (*domain.CreditBatch, error)

	Pause(ctx context.Context, actor domain.Identity) error
	Unpause(ctx context.Context, actor domain.Identity) error
	Paused() bool

	GrantRole(ctx context.Context, subject domain.Identity, role domain.Role, actor domain.Identity) error
	RevokeRole(ctx context.Context, subject domain.Identity, role domain.Role, actor domain.Identity) error
	HasRole(subject domain.Identity, role domain.Role) bool

	GetCreditBatch(id domain.BatchID) (*domain.CreditBatch, error)
	ListBatches(status domain.BatchStatus, limit int) ([]domain.CreditBatch, error)
	GetUserCredits(identity domain.Identity) []domain.BatchID
	BalanceOf(identity domain.Identity) decimal.Decimal
	BatchBalance(id domain.BatchID, identity domain.Identity) decimal.Decimal
	Holders(id domain.BatchID) ([]domain.Holding, error)
	Supply() domain.Supply
}

// IssueRequest holds input for minting a new batch.
type IssueRequest struct {
	To               domain.Identity
	CreditAmount     decimal.Decimal
	Facility         string
	HydrogenAmount   decimal.Decimal
	VerificationHash string
	Actor            domain.Identity
}

// TransferRequest moves Amount of a batch from From to To.
type TransferRequest struct {
	BatchID domain.BatchID
	From    domain.Identity
	To      domain.Identity
	Amount  decimal.Decimal
	Actor   domain.Identity
}

// RetireRequest retires Amount of the actor's holding in a batch.
type RetireRequest struct {
	BatchID domain.BatchID
	Amount  decimal.Decimal
	Actor   domain.Identity
}

// TransactionLogService is the read side of the transaction log.
type TransactionLogService interface {
	QueryByBatch(ctx context.Context, id domain.BatchID) ([]domain.TransactionRecord, error)
	QueryByParty(ctx context.Context, party domain.Identity) ([]domain.TransactionRecord, error)
	RecentTransactions(ctx context.Context, limit int) ([]domain.TransactionRecord, error)
	Verify(ctx context.Context) (*domain.ChainReport, error)
}

// ReportingService builds registry compliance reports.
type ReportingService interface {
	ComplianceStats(ctx context.Context, recent int) (*domain.ComplianceStats, error)
}

// AuditService records API audit entries without blocking the request.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
	Recent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(identity domain.Identity) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Identity  domain.Identity
	ExpiresAt time.Time
}
