package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/cloudbill/internal/billing/kind"
	billingservice "github.com/smallbiznis/cloudbill/internal/billing/service"
	"github.com/smallbiznis/cloudbill/internal/clock"
	"github.com/smallbiznis/cloudbill/internal/config"
	"github.com/smallbiznis/cloudbill/internal/observability"
	pricedomain "github.com/smallbiznis/cloudbill/internal/price/domain"
	pricerepository "github.com/smallbiznis/cloudbill/internal/price/repository"
	priceservice "github.com/smallbiznis/cloudbill/internal/price/service"
	recorddomain "github.com/smallbiznis/cloudbill/internal/record/domain"
	recordrepository "github.com/smallbiznis/cloudbill/internal/record/repository"
	recordservice "github.com/smallbiznis/cloudbill/internal/record/service"
	"github.com/smallbiznis/cloudbill/internal/reslock"
	resourcedomain "github.com/smallbiznis/cloudbill/internal/resource/domain"
	resourcerepository "github.com/smallbiznis/cloudbill/internal/resource/repository"
	resourceservice "github.com/smallbiznis/cloudbill/internal/resource/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&pricedomain.Price{},
		&resourcedomain.Resource{},
		&recorddomain.BillingRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	sysClock := clock.NewSystemClock()
	cfg := config.Config{StoreTimeout: 5 * time.Second}

	priceSvc := priceservice.New(priceservice.Params{
		DB: db, Log: log, GenID: node, Clock: sysClock,
		Repo: pricerepository.Provide(),
	})
	resourceRepo := resourcerepository.Provide()
	recordRepo := recordrepository.Provide()

	billingSvc := billingservice.New(billingservice.Params{
		DB:           db,
		Log:          log,
		GenID:        node,
		Cfg:          cfg,
		Clock:        sysClock,
		Kinds:        kind.Default(),
		Locker:       reslock.NewLocalLocker(),
		PriceSvc:     priceSvc,
		ResourceRepo: resourceRepo,
		RecordRepo:   recordRepo,
	})

	engine := NewEngine(observability.Config{LogLevel: "info"})
	srv := NewServer(ServerParams{
		Gin:        engine,
		Cfg:        cfg,
		Log:        log,
		BillingSvc: billingSvc,
		PriceSvc:   priceSvc,
		ResourceSvc: resourceservice.New(resourceservice.Params{
			DB: db, Log: log, Repo: resourceRepo,
		}),
		RecordSvc: recordservice.New(recordservice.Params{
			DB: db, Log: log, Repo: recordRepo,
		}),
	})
	srv.RegisterAPIRoutes()
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed),
		"body: %s", rec.Body.String())
	return parsed
}

func seedPrice(t *testing.T, engine *gin.Engine, resourceType, unitPrice string) {
	t.Helper()
	rec := doJSON(t, engine, http.MethodPost, "/v1/prices", gin.H{
		"resource_type":  resourceType,
		"unit_price":     unitPrice,
		"effective_from": "2015-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func postEvent(t *testing.T, engine *gin.Engine, body gin.H) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, engine, http.MethodPost, "/v1/events", body)
}

func TestHealth(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	engine := newTestServer(t)
	seedPrice(t, engine, "volume", "1")

	rec := postEvent(t, engine, gin.H{
		"resource_id":   "vol-http-1",
		"resource_type": "volume",
		"event_type":    "create",
		"event_time":    "2015-10-01T01:00:00",
		"content":       gin.H{"size": 1},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "resource_created", data["outcome"])

	rec = postEvent(t, engine, gin.H{
		"resource_id":   "vol-http-1",
		"resource_type": "volume",
		"event_type":    "exists",
		"event_time":    "2015-10-11T01:00:00",
		"content":       gin.H{"size": 1},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data = decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "consumption_accrued", data["outcome"])
	record := data["record"].(map[string]any)
	assert.Equal(t, float64(240), record["consumption"])

	rec = postEvent(t, engine, gin.H{
		"resource_id":   "vol-http-1",
		"resource_type": "volume",
		"event_type":    "delete",
		"event_time":    "2015-10-21T01:00:00",
		"content":       gin.H{"size": 1},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data = decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "resource_deleted", data["outcome"])
	resource := data["resource"].(map[string]any)
	assert.Equal(t, "deleted", resource["status"])
	assert.Equal(t, float64(480), resource["consumption"])

	rec = doJSON(t, engine, http.MethodGet, "/v1/resources/vol-http-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resource = decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "deleted", resource["status"])

	rec = doJSON(t, engine, http.MethodGet, "/v1/records/vol-http-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records := decodeBody(t, rec)["data"].([]any)
	assert.Len(t, records, 2)
}

func TestEventErrorMapping(t *testing.T) {
	engine := newTestServer(t)
	seedPrice(t, engine, "volume", "1")

	rec := postEvent(t, engine, gin.H{
		"resource_id":   "vol-errors",
		"resource_type": "volume",
		"event_type":    "create",
		"event_time":    "2015-10-01T01:00:00",
		"content":       gin.H{"size": 1},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	tests := []struct {
		name       string
		body       gin.H
		wantStatus int
		wantCode   string
	}{
		{
			name: "duplicate create",
			body: gin.H{
				"resource_id":   "vol-errors",
				"resource_type": "volume",
				"event_type":    "create",
				"event_time":    "2015-10-02T01:00:00",
				"content":       gin.H{"size": 1},
			},
			wantStatus: http.StatusConflict,
			wantCode:   "event_duplicate",
		},
		{
			name: "unknown resource type",
			body: gin.H{
				"resource_id":   "lb-1",
				"resource_type": "loadbalancer",
				"event_type":    "create",
				"event_time":    "2015-10-01T01:00:00",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "resource_type_unknown",
		},
		{
			name: "invalid event type",
			body: gin.H{
				"resource_id":   "vol-errors",
				"resource_type": "volume",
				"event_type":    "shrink",
				"event_time":    "2015-10-02T01:00:00",
				"content":       gin.H{"size": 1},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "event_type_invalid",
		},
		{
			name: "missing volume size",
			body: gin.H{
				"resource_id":   "vol-2",
				"resource_type": "volume",
				"event_type":    "create",
				"event_time":    "2015-10-01T01:00:00",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "content_invalid",
		},
		{
			name: "invalid volume size",
			body: gin.H{
				"resource_id":   "vol-3",
				"resource_type": "volume",
				"event_type":    "create",
				"event_time":    "2015-10-01T01:00:00",
				"content":       gin.H{"size": 0},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "volume_size_invalid",
		},
		{
			name: "missing resource id",
			body: gin.H{
				"resource_type": "volume",
				"event_type":    "create",
				"event_time":    "2015-10-01T01:00:00",
				"content":       gin.H{"size": 1},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_resource_id",
		},
		{
			name: "unparseable event time",
			body: gin.H{
				"resource_id":   "vol-4",
				"resource_type": "volume",
				"event_type":    "create",
				"event_time":    "first of october",
				"content":       gin.H{"size": 1},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "event_time_invalid",
		},
		{
			name: "out of order event",
			body: gin.H{
				"resource_id":   "vol-errors",
				"resource_type": "volume",
				"event_type":    "exists",
				"event_time":    "2015-09-30T01:00:00",
				"content":       gin.H{"size": 1},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "event_time_invalid",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postEvent(t, engine, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			payload := decodeBody(t, rec)["error"].(map[string]any)
			assert.Equal(t, tc.wantCode, payload["code"])
		})
	}
}

func TestPriceEndpoints(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/v1/prices", gin.H{
		"resource_type": "router",
		"unit_price":    "0.25",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)["data"].(map[string]any)
	priceID := created["id"].(string)

	rec = doJSON(t, engine, http.MethodGet, "/v1/prices/"+priceID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/v1/prices", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"].([]any), 1)

	rec = doJSON(t, engine, http.MethodPost, "/v1/prices", gin.H{
		"resource_type": "router",
		"unit_price":    "-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/v1/prices/1234567890123456789", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotFoundResponses(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/v1/resources/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	payload := decodeBody(t, rec)["error"].(map[string]any)
	assert.Equal(t, "resource_not_found", payload["code"])

	rec = doJSON(t, engine, http.MethodGet, "/v1/records/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
