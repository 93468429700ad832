package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printpay/receivables/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestDomainGroup_RegisterRoutes(t *testing.T) {
	engine := gin.New()
	var calls []string
	tag := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) { calls = append(calls, name) }
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	group := NewDomainGroup("/invoices").
		Use(tag("group")).
		GET("", ok).
		POST("", ok).
		PUT("/:id", ok).
		DELETE("/:id", ok)
	NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

	routes := map[string]bool{}
	for _, ri := range engine.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"GET /api/v2/invoices",
		"POST /api/v2/invoices",
		"PUT /api/v2/invoices/:id",
		"DELETE /api/v2/invoices/:id",
	} {
		assert.True(t, routes[want], want)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v2/invoices/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"group"}, calls)
}

func TestNew_Routes(t *testing.T) {
	engine := New(Config{}, Handlers{})
	routes := map[string]bool{}
	for _, ri := range engine.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/customers",
		"GET /api/v1/customers/:id/risk",
		"DELETE /api/v1/invoices/:id",
		"POST /api/v1/payments/:id/bounce",
		"GET /api/v1/cheques/due",
		"PUT /api/v1/settings/reminders",
		"POST /api/v1/reminders/dispatch",
		"GET /api/v1/reports/ageing",
		"GET /api/v1/dashboard",
		"GET /api/v1/calendar",
		"GET /health",
		"GET /ready",
		"GET /swagger/*any",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestNew_HealthEndpoints(t *testing.T) {
	var ready error
	engine := New(Config{Ready: func(context.Context) error { return ready }}, Handlers{})

	get := func(path string, header bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header {
			req.Header.Set(middleware.TenantHeader, uuid.NewString())
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	w := get("/health", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	assert.Equal(t, http.StatusOK, get("/ready", false).Code)

	ready = errors.New("database unreachable")
	w = get("/ready", false)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_NOT_READY")

	w = get("/api/v1/nothing-here", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")

	w = get("/api/v1/dashboard", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TENANT_REQUIRED")
}

func TestNew_Swagger(t *testing.T) {
	get := func(engine *gin.Engine, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	t.Run("disabled docs are not found", func(t *testing.T) {
		w := get(New(Config{}, Handlers{}), "/swagger/doc.json")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})

	t.Run("enabled docs describe the api without a tenant", func(t *testing.T) {
		engine := New(Config{Swagger: middleware.SwaggerConfig{Enabled: true}}, Handlers{})
		w := get(engine, "/swagger/doc.json")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Receivables API")
		assert.Contains(t, w.Body.String(), "/api/v1")
		assert.Contains(t, w.Body.String(), "/reminders/dispatch")
		assert.Contains(t, w.Body.String(), "X-Tenant-ID")
	})

	t.Run("client outside allowed ips is forbidden", func(t *testing.T) {
		engine := New(Config{Swagger: middleware.SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"10.0.0.0/8"},
		}}, Handlers{})
		w := get(engine, "/swagger/doc.json")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
	})
}
