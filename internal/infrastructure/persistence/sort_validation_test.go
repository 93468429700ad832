package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		in, def, want string
	}{
		{"asc", "DESC", "ASC"},
		{" DESC ", "ASC", "DESC"},
		{"", "ASC", "ASC"},
		{"sideways", "DESC", "DESC"},
		{"ASC; DROP TABLE customers", "ASC", "ASC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateSortOrder(tt.in, tt.def), tt.in)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitelisted", "credit_limit", "credit_limit"},
		{"trimmed", "  city ", "city"},
		{"empty", "", "name"},
		{"unknown column", "gstin", "name"},
		{"injection", "name; DELETE FROM invoices", "name"},
		{"case sensitive", "NAME", "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.in, CustomerSortFields, "name"))
		})
	}
}

func TestCustomerOrder(t *testing.T) {
	assert.Equal(t, "name ASC, company_name ASC", customerOrder("", ""))
	assert.Equal(t, "name DESC, company_name DESC", customerOrder("name", "desc"))
	assert.Equal(t, "credit_limit DESC, name ASC", customerOrder("credit_limit", "DESC"))
	assert.Equal(t, "name ASC, company_name ASC", customerOrder("mobile", "asc"))
}
