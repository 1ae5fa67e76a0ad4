package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "Asia/Bangkok", cfg.Billing.Timezone)
		assert.Equal(t, 24, cfg.Billing.CycleDay)
		assert.Equal(t, []string{"KKK+", "KBIZ", "KGSI", "TMK+"}, cfg.Accounts.Codes)
		assert.Equal(t, "KKK+", cfg.Accounts.FloorAccounts["1"])
		assert.Equal(t, "workbook", cfg.Store.Backend)
	})

	t.Run("account codes normalize to upper case", func(t *testing.T) {
		t.Setenv("ACCOUNT_CODES", " kkk+, kbiz ,")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"KKK+", "KBIZ"}, cfg.Accounts.Codes)
	})

	t.Run("dotenv file in the working directory is loaded", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BANK_CSV_DIR=drops/bank\n"), 0o644))
		t.Chdir(dir)
		t.Cleanup(func() { os.Unsetenv("BANK_CSV_DIR") })

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "drops/bank", cfg.Sources.BankDir)
	})

	t.Run("environment wins over the dotenv file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BANK_CSV_DIR=drops/bank\n"), 0o644))
		t.Chdir(dir)
		t.Setenv("BANK_CSV_DIR", "explicit/bank")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "explicit/bank", cfg.Sources.BankDir)
	})

	t.Run("invalid timezone fails", func(t *testing.T) {
		t.Setenv("BILLING_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid backend fails", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseDSN(t *testing.T) {
	dsn := (&DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		Database: "ledger", SSLMode: "disable",
	}).DSN()
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=ledger sslmode=disable", dsn)
}
