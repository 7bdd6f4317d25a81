package handler

import (
	"hydrogen-credit-ledger/internal/adapter/http/middleware"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies; ledger requests are small.
const maxBodyBytes = 64 << 10

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Ledger         ports.LedgerService
	TxLog          ports.TransactionLogService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	OpenAPISpec    []byte             // served at /swagger/spec when set
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	docs := NewDocsHandler(deps.OpenAPISpec)
	r.GET("/swagger", docs.UI)
	r.GET("/swagger/spec", docs.Spec)

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// Every API route needs a bearer token; the token subject is the caller.
	v1 := r.Group("/api/v1", middleware.JWTAuth(deps.TokenSvc, deps.Logger))

	creditHandler := NewCreditHandler(deps.Ledger, deps.TxLog)
	credits := v1.Group("/credits")
	{
		credits.POST("", rl("credits_issue"), creditHandler.Issue)
		credits.GET("", rl("reads"), creditHandler.List)
		credits.GET("/:id", rl("reads"), creditHandler.Get)
		credits.GET("/:id/transactions", rl("reads"), creditHandler.Transactions)
		credits.GET("/:id/holders", rl("reads"), creditHandler.Holders)
		credits.POST("/:id/transfer", rl("credits_write"), creditHandler.Transfer)
		credits.POST("/:id/retire", rl("credits_write"), creditHandler.Retire)
	}

	accountHandler := NewAccountHandler(deps.Ledger, deps.TxLog)
	accounts := v1.Group("/accounts/:identity", rl("reads"))
	{
		accounts.GET("/credits", accountHandler.Credits)
		accounts.GET("/balance", accountHandler.Balance)
		accounts.GET("/transactions", accountHandler.Transactions)
	}

	reportHandler := NewReportHandler(deps.Ledger, deps.TxLog, deps.ReportingSvc)
	v1.GET("/supply", rl("reads"), reportHandler.Supply)
	v1.GET("/stats", rl("reads"), reportHandler.Stats)
	v1.GET("/transactions/recent", rl("reads"), reportHandler.RecentTransactions)

	roleHandler := NewRoleHandler(deps.Ledger)
	roles := v1.Group("/roles")
	{
		roles.POST("/grant", rl("roles"), roleHandler.Grant)
		roles.POST("/revoke", rl("roles"), roleHandler.Revoke)
		roles.GET("/:role/:identity", rl("reads"), roleHandler.Check)
	}

	adminHandler := NewAdminHandler(deps.Ledger, deps.TxLog, deps.AuditSvc)
	admin := v1.Group("/admin")
	{
		admin.POST("/pause", rl("admin"), adminHandler.Pause)
		admin.POST("/unpause", rl("admin"), adminHandler.Unpause)
		admin.GET("/paused", rl("reads"), adminHandler.Paused)
		admin.GET("/verify", rl("admin"), adminHandler.Verify)
		admin.GET("/audit", rl("admin"), adminHandler.Audit)
	}

	return r
}
