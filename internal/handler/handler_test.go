package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/sales-org-service/internal/config"
	"github.com/deppfellow/sales-org-service/internal/errs"
	"github.com/deppfellow/sales-org-service/internal/server"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(checks ...string) *server.Server {
	obs := config.DefaultObservabilityConfig()
	obs.HealthChecks.Checks = checks

	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: obs,
		},
		Logger: &logger,
	}
}

type greetRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *greetRequest) Validate() error {
	return validator.New().Struct(r)
}

func postJSON(body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/greet", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestHandle_WritesJSONWithStatus(t *testing.T) {
	h := Handle(func(c echo.Context, req *greetRequest) (map[string]string, error) {
		return map[string]string{"greeting": "hello " + req.Name}, nil
	}, http.StatusCreated)

	c, rec := postJSON(`{"name":"ada"}`)
	require.NoError(t, h(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"greeting":"hello ada"}`, rec.Body.String())
}

func TestHandle_FreshRequestPerCall(t *testing.T) {
	h := Handle(func(c echo.Context, req *greetRequest) (string, error) {
		return req.Name, nil
	}, http.StatusOK)

	c, _ := postJSON(`{"name":"ada"}`)
	require.NoError(t, h(c))

	c, _ = postJSON(`{}`)
	err := h(c)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestHandle_PropagatesHandlerError(t *testing.T) {
	want := errs.NewNotFoundError("gone", false, nil)
	h := Handle(func(c echo.Context, req *greetRequest) (string, error) {
		return "", want
	}, http.StatusOK)

	c, _ := postJSON(`{"name":"ada"}`)
	assert.Same(t, want, h(c))
}

func TestHandleNoContent(t *testing.T) {
	called := false
	h := HandleNoContent(func(c echo.Context, req *greetRequest) error {
		called = true
		return nil
	}, http.StatusNoContent)

	c, rec := postJSON(`{"name":"ada"}`)
	require.NoError(t, h(c))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func getContext(path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestCheckHealth_Healthy(t *testing.T) {
	s := newTestServer("redis")
	mr := miniredis.RunT(t)
	s.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.Redis.Close() })

	c, rec := getContext("/status")
	require.NoError(t, NewHealthHandler(s).CheckHealth(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, statusHealthy, body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, statusHealthy, body.Checks["redis"].Status)
	assert.NotContains(t, body.Checks, "database")
}

func TestCheckHealth_UnconfiguredDependencyIsUnhealthy(t *testing.T) {
	s := newTestServer("database", "redis")

	c, rec := getContext("/status")
	require.NoError(t, NewHealthHandler(s).CheckHealth(c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, statusUnhealthy, body.Status)
	assert.Equal(t, "database not configured", body.Checks["database"].Error)
	assert.Equal(t, "redis not configured", body.Checks["redis"].Error)
}

func TestCheckHealth_NoChecks(t *testing.T) {
	c, rec := getContext("/status")
	require.NoError(t, NewHealthHandler(newTestServer()).CheckHealth(c))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeOpenAPIUI(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.html"), []byte("<html>docs</html>"), 0o600))

	h := NewOpenAPIHandler(newTestServer())
	h.staticDir = dir

	c, rec := getContext("/docs")
	require.NoError(t, h.ServeOpenAPIUI(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "<html>docs</html>", rec.Body.String())
}

func TestServeOpenAPIUI_MissingTemplate(t *testing.T) {
	h := NewOpenAPIHandler(newTestServer())
	h.staticDir = t.TempDir()

	c, _ := getContext("/docs")
	assert.Error(t, h.ServeOpenAPIUI(c))
}

func TestParseID(t *testing.T) {
	_, err := parseID("not-a-uuid")

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	id, err := parseID("7b0c5a43-4f0e-4d8e-9a51-2a3b6cb1f0a2")
	require.NoError(t, err)
	assert.Equal(t, "7b0c5a43-4f0e-4d8e-9a51-2a3b6cb1f0a2", id.String())
}
