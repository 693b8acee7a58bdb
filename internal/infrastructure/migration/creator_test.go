package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/adboard/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add contracts table", "add_contracts_table"},
		{"Add-Contracts-Table", "add_contracts_table"},
		{"ADD_CONTRACTS_TABLE", "add_contracts_table"},
		{"add__payments__index", "add_payments_index"},
		{"Pricing 2025", "pricing_2025"},
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

	first, err := CreateMigration(dir, "add billboards", "Billboard inventory")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, "000001_add_billboards.up.sql", filepath.Base(first.UpPath))
	assert.Equal(t, "000001_add_billboards.down.sql", filepath.Base(first.DownPath))

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Billboard inventory")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")

	second, err := CreateMigration(dir, "add payments", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_Errors(t *testing.T) {
	t.Run("unusable name", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})

	t.Run("non-numeric existing version", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101_init.up.sql"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "draft_init.up.sql"), nil, 0o644))

		_, err := CreateMigration(dir, "next", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_add_payments.up.sql":   {},
		"000002_add_payments.down.sql": {},
		"000001_init.up.sql":           {},
		"000001_init.down.sql":         {},
		"README.md":                    {},
		"nested/000009_x.up.sql":       {},
	}

	got, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init", "000002_add_payments"}, got)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for i, base := range ups {
		assert.True(t, strings.HasPrefix(base, fmt.Sprintf("%0*d_", versionWidth, i+1)),
			"migration %s is out of sequence", base)
		_, err := migrations.FS.Open(base + ".down.sql")
		assert.NoError(t, err, "missing down migration for %s", base)
	}
}
