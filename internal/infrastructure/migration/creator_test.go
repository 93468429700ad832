package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printpay/receivables/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add payments index", "add_payments_index"},
		{"Add-Payments-Index", "add_payments_index"},
		{"ADD__PAYMENTS", "add_payments"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add cheque index", "Index cheques by deposit date")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_cheque_index.up.sql"), first.UpPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add cheque index")
	assert.Contains(t, string(up), "Index cheques by deposit date")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")

	second, err := CreateMigration(dir, "add notes", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	_, err = CreateMigration(dir, "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	t.Run("embedded schema is ordered and paired", func(t *testing.T) {
		names, err := ListMigrations(migrations.FS)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"000001_create_customers",
			"000002_create_invoices",
			"000003_create_payments",
			"000004_create_follow_ups",
			"000005_create_reminder_settings",
		}, names)

		for _, name := range names {
			_, err := migrations.FS.Open(name + ".down.sql")
			assert.NoError(t, err, name)
		}
	})

	t.Run("missing directory is empty", func(t *testing.T) {
		names, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "nope")))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("ignores stray files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.up.sql"), nil, 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000010_x.up.sql"), nil, 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000002_y.up.sql"), nil, 0o600))

		names, err := ListMigrations(os.DirFS(dir))
		require.NoError(t, err)
		assert.Equal(t, []string{"000002_y", "000010_x"}, names)
	})
}
