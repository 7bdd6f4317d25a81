package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodySizeRouter(limit int64) *gin.Engine {
	r := gin.New()
	r.Use(MaxBodySize(limit))
	r.POST("/credits/1/retire", func(c *gin.Context) {
		var req struct {
			Amount string `json:"amount"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, req.Amount)
	})
	r.GET("/supply", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestMaxBodySize(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"within limit", `{"amount":"40"}`, http.StatusOK},
		{"exact limit", `{"amount":"4000"}`, http.StatusOK},
		{"exceeded", `{"amount":"` + strings.Repeat("9", 100) + `"}`, http.StatusRequestEntityTooLarge},
	}
	r := bodySizeRouter(int64(len(`{"amount":"4000"}`)))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/credits/1/retire", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestMaxBodySize_NilBody(t *testing.T) {
	w := httptest.NewRecorder()
	bodySizeRouter(16).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/supply", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
