package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/printpay/receivables/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentBody struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,money"`
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"money_nonneg"`
	Mode        string          `json:"mode" binding:"required,oneof=Cash NEFT UPI Cheque"`
}

func TestSetupValidator_Money(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	r := gin.New()
	r.Use(RequestID())
	r.POST("/payments", func(c *gin.Context) {
		var body paymentBody
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleBindError(c, err)
			return
		}
		c.String(http.StatusOK, body.Amount.StringFixed(2))
	})

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantField string
	}{
		{"string amount", `{"amount":"4000.50","mode":"UPI"}`, http.StatusOK, ""},
		{"numeric amount", `{"amount":2500,"mode":"Cash"}`, http.StatusOK, ""},
		{"zero amount", `{"amount":"0","mode":"Cash"}`, http.StatusBadRequest, "amount"},
		{"negative amount", `{"amount":"-5","mode":"Cash"}`, http.StatusBadRequest, "amount"},
		{"three decimals", `{"amount":"10.005","mode":"Cash"}`, http.StatusBadRequest, "amount"},
		{"negative credit limit", `{"amount":"10","credit_limit":"-1","mode":"Cash"}`, http.StatusBadRequest, "credit_limit"},
		{"unknown mode", `{"amount":"10","mode":"Barter"}`, http.StatusBadRequest, "mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(tt.body)))
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantField == "" {
				return
			}
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Details)
			assert.Equal(t, tt.wantField, resp.Error.Details[0].Field)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"amount":`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
	})
}
