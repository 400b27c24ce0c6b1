package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursebook-api/internal/service"
)

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics, "/metrics"))
	r.GET("/courses/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/courses/a", "/courses/b", "/metrics", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	// One series for the course route and one for unmatched paths.
	assert.Equal(t, 2, count)
}

func TestResponseMetaCarriesCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var captured map[string]interface{}
	r := gin.New()
	r.GET("/overview", WithResponseMeta(), func(c *gin.Context) {
		SetCacheHit(c, true)
		captured = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/overview", nil))

	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	require.NotNil(t, captured)
	assert.Equal(t, true, captured[cacheHitKey])
	assert.Contains(t, captured, "processing_time_ms")
}

func TestSetCacheHitWithoutMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	SetCacheHit(c, false)

	assert.Equal(t, false, ExtractMeta(c)[cacheHitKey])
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}
