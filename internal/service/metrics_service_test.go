package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/students", http.StatusOK, 10*time.Millisecond)
	m.ObserveStoreOperation("students", "list", time.Millisecond, nil)
	m.ObserveStoreOperation("students", "update", time.Millisecond, errors.New("boom"))
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordReportJob("roster", "FINISHED")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/v1/students", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("students", "update")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("students", "list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportJobs.WithLabelValues("roster", "FINISHED")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "store_operation_duration_seconds")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.ObserveStoreOperation("courses", "get", time.Millisecond, nil)
	m.RecordReportJob("roster", "FAILED")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, OverviewCacheKey("2024-05"), struct{}{}, 0))
	assert.Empty(t, repo.values)
	svc.InvalidateOverview(ctx)
	assert.Zero(t, repo.invalidations())

	var nilSvc *CacheService
	hit, err := nilSvc.Get(ctx, "overview:2024-05", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceRecordsLookups(t *testing.T) {
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	hit, err := svc.Get(ctx, OverviewCacheKey("2024-05"), &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("miss")))

	svc.InvalidateOverview(ctx)
	assert.Equal(t, []string{OverviewCachePattern}, repo.invalidated)
}
