package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	rcvapp "github.com/printpay/receivables/internal/application/receivables"
	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/infrastructure/cache"
	"github.com/printpay/receivables/internal/infrastructure/config"
	"github.com/printpay/receivables/internal/infrastructure/event"
	"github.com/printpay/receivables/internal/infrastructure/persistence"
	"github.com/printpay/receivables/internal/interfaces/http/handler"
	"github.com/printpay/receivables/internal/interfaces/http/middleware"
	"github.com/printpay/receivables/internal/interfaces/http/router"
)

var (
	testTenant = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	// 15 June 2024, mid-morning
	testNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
)

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, persistence.Options{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	followUps := persistence.NewGormFollowUpRepository(db.DB)
	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(rcvapp.NewReminderLogHandler(followUps, zap.NewNop()))
	require.NoError(t, bus.Start(context.Background()))

	now := func() time.Time { return testNow }
	service, err := rcvapp.NewCollectionService(rcvapp.Dependencies{
		Customers: persistence.NewGormCustomerRepository(db.DB),
		Invoices:  persistence.NewGormInvoiceRepository(db.DB),
		FollowUps: followUps,
		Settings:  persistence.NewGormReminderSettingsRepository(db.DB),
		Locker:    cache.NewInMemoryInvoiceLocker(),
		Publisher: bus,
	}, rcvapp.Options{
		DefaultSettings: receivables.DefaultReminderSettings(),
		Now:             now,
	})
	require.NoError(t, err)

	clock := handler.Clock{Location: time.UTC, Now: now}
	engine := router.New(router.Config{Ready: db.PingContext}, router.Handlers{
		Customers: handler.NewCustomerHandler(service, clock),
		Invoices:  handler.NewInvoiceHandler(service, clock),
		Payments:  handler.NewPaymentHandler(service, clock),
		FollowUps: handler.NewFollowUpHandler(service, clock),
		Analytics: handler.NewAnalyticsHandler(service, clock),
	})
	return &testAPI{t: t, engine: engine}
}

// do sends a request for testTenant and returns the recorder
func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantHeader, testTenant.String())
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// decode unmarshals a response envelope
func decode[T any](t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse[T] {
	t.Helper()
	var resp handler.APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func (a *testAPI) createCustomer(name string) receivables.Customer {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/customers", map[string]any{
		"name":         name,
		"company_name": name + " Prints",
		"mobile":       "9876543210",
		"email":        "accounts@example.com",
		"credit_limit": "100000",
		"tags":         []string{"Offset", "Large Format"},
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[receivables.Customer](a.t, w).Data
}

func (a *testAPI) createInvoice(customerID uuid.UUID, number, amount, date, due string) receivables.InvoiceView {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/invoices", map[string]any{
		"invoice_number": number,
		"customer_id":    customerID,
		"date":           date,
		"due_date":       due,
		"amount":         amount,
		"job_name":       "Wedding cards",
		"job_type":       "Digital",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[receivables.InvoiceView](a.t, w).Data
}
