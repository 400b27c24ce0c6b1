package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/coursebook-api/internal/middleware"
	"github.com/noah-isme/coursebook-api/internal/models"
)

type fakeOverviewSrv struct {
	overview *models.Overview
	hit      bool
	err      error
}

func (f *fakeOverviewSrv) Get(context.Context) (*models.Overview, bool, error) {
	return f.overview, f.hit, f.err
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

func TestOverviewHandlerReportsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOverviewHandler(&fakeOverviewSrv{
		overview: &models.Overview{Month: "2024-05", StudentCount: 3},
		hit:      true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/overview", nil)
	middleware.WithResponseMeta()(c)

	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	assert.Equal(t, "2024-05", envelope.Data["month"])
	assert.Equal(t, float64(3), envelope.Data["student_count"])
}

func TestOverviewHandlerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOverviewHandler(&fakeOverviewSrv{err: errors.New("store offline")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/overview", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOverviewHandlerWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOverviewHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/overview", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
