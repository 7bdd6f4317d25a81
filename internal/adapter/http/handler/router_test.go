package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hydrogen-credit-ledger/internal/adapter/http/handler"
	"hydrogen-credit-ledger/internal/adapter/storage/memory"
	redisStore "hydrogen-credit-ledger/internal/adapter/storage/redis"
	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/internal/service"
	"hydrogen-credit-ledger/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	tokens *service.JWTTokenService
	ledger *service.Ledger
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zerolog.Nop()
	ctx := context.Background()

	ledger := service.NewLedger(memory.NewLedgerStore(), nil, log)
	require.NoError(t, ledger.Restore(ctx, nil, "admin"))

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens := service.NewJWTTokenService("router-test-secret-0123456789abcdef", time.Hour, "hcl-test")
	router := handler.SetupRouter(handler.RouterDeps{
		Ledger:         ledger,
		TxLog:          ledger.TransactionLog(),
		ReportingSvc:   service.NewReportingService(ledger, ledger.TransactionLog(), log),
		TokenSvc:       tokens,
		RateLimitStore: redisStore.NewRateLimitStore(client),
		HealthCheckers: []ports.HealthChecker{redisStore.NewHealthCheck(client)},
		AuditSvc:       service.NewAuditService(memory.NewAuditRepo(100), log),
		Logger:         log,
	})
	return &testAPI{t: t, router: router, tokens: tokens, ledger: ledger}
}

// do sends a request as identity (no token when empty) and decodes the
// response envelope.
func (a *testAPI) do(method, path string, identity domain.Identity, body string) (int, map[string]interface{}) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if identity != "" {
		token, _, err := a.tokens.Generate(identity)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w.Code, resp
}

func data(resp map[string]interface{}) map[string]interface{} {
	d, _ := resp["data"].(map[string]interface{})
	return d
}

func TestRouter_CreditLifecycle(t *testing.T) {
	api := newTestAPI(t)

	code, _ := api.do(http.MethodPost, "/api/v1/roles/grant", "admin", `{"identity":"certifier","role":"certifier"}`)
	require.Equal(t, http.StatusOK, code)

	code, resp := api.do(http.MethodPost, "/api/v1/credits", "certifier", `{
		"to": "user1",
		"credit_amount": "100",
		"production_facility": "Facility A",
		"hydrogen_amount": "1000",
		"verification_hash": "hash123"
	}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, float64(1), data(resp)["batch_id"])

	code, resp = api.do(http.MethodPost, "/api/v1/credits/1/transfer", "user1", `{"to":"user2","amount":"60"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "40", data(resp)["balance"])

	code, resp = api.do(http.MethodPost, "/api/v1/credits/1/retire", "user1", `{"amount":"40"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "60", data(resp)["credit_amount"])
	assert.Equal(t, false, data(resp)["is_retired"])

	code, resp = api.do(http.MethodGet, "/api/v1/credits?status=active", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), data(resp)["count"])

	code, resp = api.do(http.MethodGet, "/api/v1/credits?status=retired", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), data(resp)["count"])

	code, resp = api.do(http.MethodGet, "/api/v1/supply", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "100", data(resp)["total_supply"])
	assert.Equal(t, "40", data(resp)["total_retired"])
	assert.Equal(t, "60", data(resp)["outstanding_supply"])
	assert.Equal(t, "1000", data(resp)["total_hydrogen_produced"])

	code, resp = api.do(http.MethodGet, "/api/v1/accounts/user2/balance?batch_id=1", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "60", data(resp)["balance"])

	code, resp = api.do(http.MethodGet, "/api/v1/accounts/user2/credits", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{float64(1)}, data(resp)["batches"])

	code, resp = api.do(http.MethodGet, "/api/v1/credits/1/transactions", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), data(resp)["count"])

	code, resp = api.do(http.MethodGet, "/api/v1/accounts/user1/transactions", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), data(resp)["count"])

	code, resp = api.do(http.MethodGet, "/api/v1/credits/1/holders", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), data(resp)["count"])

	code, resp = api.do(http.MethodGet, "/api/v1/stats", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), data(resp)["active_batches"])
	assert.Equal(t, float64(1), data(resp)["transfer_count"])
	assert.Len(t, data(resp)["recent_transactions"], 3)

	code, resp = api.do(http.MethodGet, "/api/v1/admin/verify", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(resp)["valid"])
	assert.Equal(t, float64(3), data(resp)["records"])
}

func TestRouter_ErrorEnvelopes(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name     string
		method   string
		path     string
		identity domain.Identity
		body     string
		status   int
		code     string
	}{
		{"missing token", http.MethodGet, "/api/v1/supply", "", "", http.StatusUnauthorized, apperror.CodeInvalidToken},
		{"issue without role", http.MethodPost, "/api/v1/credits", "user1",
			`{"to":"user1","credit_amount":"1","production_facility":"F","hydrogen_amount":"1","verification_hash":"h"}`,
			http.StatusForbidden, apperror.CodeUnauthorized},
		{"unknown batch", http.MethodGet, "/api/v1/credits/42", "user1", "", http.StatusNotFound, apperror.CodeBatchNotFound},
		{"retire unknown batch", http.MethodPost, "/api/v1/credits/42/retire", "user1", `{"amount":"1"}`,
			http.StatusNotFound, apperror.CodeBatchNotFound},
		{"unknown batch status", http.MethodGet, "/api/v1/credits?status=burnt", "user1", "", http.StatusBadRequest, apperror.CodeValidation},
		{"malformed body", http.MethodPost, "/api/v1/credits/1/transfer", "user1", `{"to":`, http.StatusBadRequest, apperror.CodeValidation},
		{"unknown role", http.MethodPost, "/api/v1/roles/grant", "admin", `{"identity":"user1","role":"minter"}`,
			http.StatusBadRequest, apperror.CodeInvalidRole},
		{"last admin", http.MethodPost, "/api/v1/roles/revoke", "admin", `{"identity":"admin","role":"admin"}`,
			http.StatusConflict, apperror.CodeLastAdminLockout},
		{"unpause when running", http.MethodPost, "/api/v1/admin/unpause", "admin", "", http.StatusForbidden, apperror.CodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := api.do(tt.method, tt.path, tt.identity, tt.body)
			assert.Equal(t, tt.status, code)
			assert.Equal(t, tt.code, resp["error_code"])
			assert.NotEmpty(t, resp["request_id"])
		})
	}
}

func TestRouter_PauseGate(t *testing.T) {
	api := newTestAPI(t)

	for _, grant := range []string{
		`{"identity":"certifier","role":"certifier"}`,
		`{"identity":"pauser","role":"pauser"}`,
	} {
		code, _ := api.do(http.MethodPost, "/api/v1/roles/grant", "admin", grant)
		require.Equal(t, http.StatusOK, code)
	}

	code, _ := api.do(http.MethodPost, "/api/v1/admin/pause", "pauser", "")
	require.Equal(t, http.StatusOK, code)

	code, resp := api.do(http.MethodGet, "/api/v1/admin/paused", "user1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(resp)["paused"])

	code, resp = api.do(http.MethodPost, "/api/v1/credits", "certifier",
		`{"to":"user1","credit_amount":"1","production_facility":"F","hydrogen_amount":"1","verification_hash":"h"}`)
	assert.Equal(t, http.StatusLocked, code)
	assert.Equal(t, apperror.CodePaused, resp["error_code"])

	code, _ = api.do(http.MethodPost, "/api/v1/admin/unpause", "pauser", "")
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodPost, "/api/v1/credits", "certifier",
		`{"to":"user1","credit_amount":"1","production_facility":"F","hydrogen_amount":"1","verification_hash":"h"}`)
	assert.Equal(t, http.StatusCreated, code)
}

func TestRouter_AuditTrail(t *testing.T) {
	api := newTestAPI(t)

	code, _ := api.do(http.MethodPost, "/api/v1/credits/7/retire", "user1", `{"amount":"1"}`)
	require.Equal(t, http.StatusNotFound, code)

	code, resp := api.do(http.MethodGet, "/api/v1/admin/audit", "user1", "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, apperror.CodeUnauthorized, resp["error_code"])

	// Audit entries are written asynchronously.
	assert.Eventually(t, func() bool {
		code, resp := api.do(http.MethodGet, "/api/v1/admin/audit", "admin", "")
		return code == http.StatusOK && data(resp)["count"] == float64(1)
	}, time.Second, 10*time.Millisecond)

	_, resp = api.do(http.MethodGet, "/api/v1/admin/audit", "admin", "")
	entry := data(resp)["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, string(domain.AuditActionRetire), entry["action"])
	assert.Equal(t, "7", entry["resource_id"])
	assert.Equal(t, "user1", entry["actor"])
	assert.Equal(t, apperror.CodeBatchNotFound, entry["error_code"])
}

func TestRouter_RateLimitHeaders(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/supply", nil)
	token, _, err := api.tokens.Generate("user1")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "300", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "299", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)

	code, resp := api.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp["status"])
}
