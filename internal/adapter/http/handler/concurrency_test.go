package handler_test

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"hydrogen-credit-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedBatch grants the certifier role and issues amount credits to owner
// through the API.
func seedBatch(t *testing.T, api *testAPI, owner domain.Identity, amount string) {
	t.Helper()
	code, _ := api.do(http.MethodPost, "/api/v1/roles/grant", "admin", `{"identity":"certifier","role":"certifier"}`)
	require.Equal(t, http.StatusOK, code)

	body := fmt.Sprintf(`{"to":%q,"credit_amount":%q,"production_facility":"Facility A","hydrogen_amount":"5000","verification_hash":"h-conc"}`,
		owner, amount)
	code, _ = api.do(http.MethodPost, "/api/v1/credits", "certifier", body)
	require.Equal(t, http.StatusCreated, code)
}

// fire sends n concurrent POSTs as identity and counts the responses that
// came back with want.
func fire(t *testing.T, srv *httptest.Server, api *testAPI, identity domain.Identity, path string, n int, body func(i int) string, want int) (ok, other int64) {
	t.Helper()
	token, _, err := api.tokens.Generate(identity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var okCount, otherCount atomic.Int64
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewBufferString(body(idx)))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			r, err := http.DefaultClient.Do(req)
			if err != nil {
				otherCount.Add(1)
				return
			}
			defer r.Body.Close()
			_, _ = io.ReadAll(r.Body)

			if r.StatusCode == want {
				okCount.Add(1)
			} else {
				otherCount.Add(1)
			}
		}(i)
	}
	wg.Wait()
	return okCount.Load(), otherCount.Load()
}

// TestConcurrentRetirements fires more retirements than the holder can cover
// and checks that exactly the affordable ones commit.
func TestConcurrentRetirements(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.router)
	defer srv.Close()

	seedBatch(t, api, "user1", "1000")

	// 100 x 15 = 1500 requested against 1000 held: 66 fit, 34 must fail.
	ok, failed := fire(t, srv, api, "user1", "/api/v1/credits/1/retire", 100,
		func(int) string { return `{"amount":"15"}` }, http.StatusOK)

	assert.Equal(t, int64(66), ok)
	assert.Equal(t, int64(34), failed)
	assert.True(t, api.ledger.BatchBalance(1, "user1").Equal(decimal.NewFromInt(10)), "balance must never go negative")

	supply := api.ledger.Supply()
	assert.True(t, supply.TotalRetired.Equal(decimal.NewFromInt(990)))
	assert.True(t, supply.OutstandingSupply.Equal(decimal.NewFromInt(10)))

	code, resp := api.do(http.MethodGet, "/api/v1/admin/verify", "auditor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(resp)["valid"])
	assert.Equal(t, float64(67), data(resp)["records"])
}

// TestConcurrentTransfers drains one holder into several recipients in
// parallel and checks the batch total is conserved.
func TestConcurrentTransfers(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.router)
	defer srv.Close()

	seedBatch(t, api, "user1", "1000")

	ok, failed := fire(t, srv, api, "user1", "/api/v1/credits/1/transfer", 100,
		func(i int) string { return fmt.Sprintf(`{"to":"recipient-%d","amount":"10"}`, i%4) }, http.StatusOK)

	require.Equal(t, int64(100), ok)
	require.Zero(t, failed)

	assert.True(t, api.ledger.BatchBalance(1, "user1").IsZero())
	total := decimal.Zero
	for i := 0; i < 4; i++ {
		bal := api.ledger.BatchBalance(1, domain.Identity(fmt.Sprintf("recipient-%d", i)))
		assert.True(t, bal.Equal(decimal.NewFromInt(250)), "recipient-%d holds %s", i, bal)
		total = total.Add(bal)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(1000)))

	holders, err := api.ledger.Holders(1)
	require.NoError(t, err)
	assert.Len(t, holders, 4)
}
