package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind shared.ErrorKind
		want int
	}{
		{shared.KindValidation, http.StatusBadRequest},
		{shared.KindConfiguration, http.StatusBadRequest},
		{shared.KindNotFound, http.StatusNotFound},
		{shared.KindConflict, http.StatusConflict},
		{shared.KindInvalidTransition, http.StatusUnprocessableEntity},
		{shared.KindBusinessRule, http.StatusUnprocessableEntity},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForKind(tt.kind))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("OVERPAYMENT", "Payment exceeds balance", "req-1")
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"OVERPAYMENT","message":"Payment exceeds balance","request_id":"req-1"}}`, string(data))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{{Field: "amount", Message: "Must be a positive amount"}})
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	assert.Equal(t, 0, NewSuccessResponseWithMeta(nil, 5, 1, 0).Meta.TotalPages)
}
