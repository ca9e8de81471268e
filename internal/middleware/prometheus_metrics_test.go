package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishaware/backend/internal/metrics"
)

func TestMetricsMiddlewareCountsServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.Get()

	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	r.GET("/fine", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	errorsBefore := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("server_error", "/boom"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/fine", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	errorsAfter := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("server_error", "/boom"))
	assert.Equal(t, errorsBefore+1, errorsAfter)

	// 2xx responses never count as errors
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("server_error", "/fine")))

	requests := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "500"))
	assert.GreaterOrEqual(t, requests, 1.0)
}
