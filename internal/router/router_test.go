package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/sales-org-service/internal/config"
	"github.com/deppfellow/sales-org-service/internal/errs"
	"github.com/deppfellow/sales-org-service/internal/handler"
	"github.com/deppfellow/sales-org-service/internal/lib/cache"
	"github.com/deppfellow/sales-org-service/internal/metrics"
	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/deppfellow/sales-org-service/internal/repository"
	"github.com/deppfellow/sales-org-service/internal/server"
	"github.com/deppfellow/sales-org-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) *server.Server {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	obs := config.DefaultObservabilityConfig()
	obs.Environment = "test"
	obs.HealthChecks.Checks = []string{"redis"}

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"*"},
		},
		Cache:         config.DefaultCacheConfig(),
		Observability: obs,
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger := zerolog.Nop()
	return &server.Server{
		Config:  cfg,
		Logger:  &logger,
		Redis:   client,
		Cache:   cache.NewLookupCache(client, time.Minute),
		Metrics: metrics.NewCollector(),
	}
}

func newTestRouter(t *testing.T, mutate func(cfg *config.Config)) *echo.Echo {
	t.Helper()

	s := newTestServer(t, mutate)
	services, err := service.NewService(s, repository.NewMemoryRepositories())
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createRule(t *testing.T, e *echo.Echo, body string) model.SalesRule {
	t.Helper()

	rec := do(t, e, http.MethodPost, "/api/v1/sales-rules", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.SalesRule](t, rec)
}

func TestLookup_MissingCountry(t *testing.T) {
	e := newTestRouter(t, nil)

	for _, body := range []string{`{"request":{"region":"EU"}}`, `{"request":{"country":""}}`, `{}`} {
		rec := do(t, e, http.MethodPost, "/api/v1/sales/lookup", body)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Country code is required", decode[errs.HTTPError](t, rec).Message)
	}
}

func TestLookup_EndToEnd(t *testing.T) {
	e := newTestRouter(t, nil)
	createRule(t, e, `{"country":"fr","region":null,"salesOrg":"S1","salesRepEmail":"a@x.com"}`)
	createRule(t, e, `{"country":"FR","region":"EU","salesOrg":"S2","salesRepEmail":"eu@x.com"}`)

	rec := do(t, e, http.MethodPost, "/api/v1/sales/lookup", `{"request":{"country":"FR"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"salesOrg":"S1","salesRepEmail":"a@x.com"}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/api/v1/sales/lookup", `{"request":{"country":"FR","region":"EU"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"salesOrg":"S2","salesRepEmail":"eu@x.com"}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/api/v1/sales/lookup", `{"request":{"country":"FR","region":"APAC"}}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `No sales rule found for country="FR", region="APAC"`, decode[errs.HTTPError](t, rec).Message)

	rec = do(t, e, http.MethodPost, "/api/v1/sales/lookup", `{"request":{"country":"DE","region":null}}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `No sales rule found for country="DE", region="null"`, decode[errs.HTTPError](t, rec).Message)
}

func TestLookup_LongCountryIsNotFound(t *testing.T) {
	e := newTestRouter(t, nil)
	country := strings.Repeat("F", 120)

	rec := do(t, e, http.MethodPost, "/api/v1/sales/lookup", `{"request":{"country":"`+country+`"}}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `No sales rule found for country="`+country+`", region="null"`, decode[errs.HTTPError](t, rec).Message)
}

func TestCreate_ValidatesPayload(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodPost, "/api/v1/sales-rules", `{"country":"FRA","salesOrg":"S1","salesRepEmail":"nope"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "Validation failed", body.Message)
	fields := make([]string, 0, len(body.Errors))
	for _, fe := range body.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"country", "salesrepemail"}, fields)

	rec = do(t, e, http.MethodPost, "/api/v1/sales-rules", `{"country":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_DuplicateScope(t *testing.T) {
	e := newTestRouter(t, nil)
	createRule(t, e, `{"country":"FR","salesOrg":"S1","salesRepEmail":"a@x.com"}`)

	rec := do(t, e, http.MethodPost, "/api/v1/sales-rules", `{"country":"fr","salesOrg":"S2","salesRepEmail":"b@x.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "SALES_RULE_ALREADY_EXISTS", body.Code)
	assert.True(t, body.Override)
}

func TestCRUDLifecycle(t *testing.T) {
	e := newTestRouter(t, nil)
	rule := createRule(t, e, `{"country":"fr","region":"EU","salesOrg":"S1","salesRepEmail":"a@x.com"}`)
	assert.Equal(t, "FR", rule.Country)
	path := "/api/v1/sales-rules/" + rule.ID.String()

	rec := do(t, e, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rule.ID, decode[model.SalesRule](t, rec).ID)

	rec = do(t, e, http.MethodPatch, path, `{"salesOrg":"S9"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.SalesRule](t, rec)
	assert.Equal(t, "FR", updated.Country)
	assert.Equal(t, "S9", updated.SalesOrg)
	require.NotNil(t, updated.Region)

	rec = do(t, e, http.MethodPatch, path, `{"country":"de","region":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated = decode[model.SalesRule](t, rec)
	assert.Equal(t, "DE", updated.Country)
	assert.Nil(t, updated.Region)

	rec = do(t, e, http.MethodGet, "/api/v1/sales-rules?country=de", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[model.Page[model.SalesRule]](t, rec)
	assert.Equal(t, 1, page.Total)

	rec = do(t, e, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Sales Rule not found", decode[errs.HTTPError](t, rec).Message)
}

func TestInvalidIDAndUnknownRoute(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodGet, "/api/v1/sales-rules/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
}

func TestLookupRateLimit(t *testing.T) {
	e := newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.LookupRateLimit = 1
	})

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(t, e, http.MethodPost, "/api/v1/sales/lookup", `{"request":{"country":"FR"}}`).Code)
	}
	assert.Equal(t, []int{http.StatusNotFound, http.StatusNotFound, http.StatusTooManyRequests}, codes)
}

func TestWritesRequireAuthWhenConfigured(t *testing.T) {
	e := newTestRouter(t, func(cfg *config.Config) {
		cfg.Auth.SecretKey = "sk_test_dummy"
	})

	rec := do(t, e, http.MethodPost, "/api/v1/sales-rules", `{"country":"FR","salesOrg":"S1","salesRepEmail":"a@x.com"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/sales-rules", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t, nil)
	do(t, e, http.MethodPost, "/api/v1/sales/lookup", `{"request":{"country":"FR"}}`)

	rec := do(t, e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis"`)

	rec = do(t, e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sales_lookups_total{outcome="not_found"} 1`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	e := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
