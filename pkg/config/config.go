package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all importer configuration. It is built once at startup and
// passed into the pipeline; nothing mutates it afterwards.
type Config struct {
	Sources  SourcesConfig
	Billing  BillingConfig
	Accounts AccountsConfig
	Store    StoreConfig
	Cron     CronConfig
}

// SourcesConfig names the folders the importer scans for new files.
type SourcesConfig struct {
	ReportDir string // Horganice .xls/.xlsx drops
	BankDir   string // bank statement .csv drops
}

// BillingConfig carries the rent-cycle settings.
type BillingConfig struct {
	Timezone string
	// CycleDay is the day-of-month on which charges roll into the next
	// billing period. Horganice issues bills dated the 24th onward for the
	// following month.
	CycleDay int
}

// AccountsConfig enumerates the valid receiving-account codes and the
// floor-digit mapping used to derive an account from a room number.
type AccountsConfig struct {
	Codes         []string
	FloorAccounts map[string]string
}

type StoreConfig struct {
	// Backend selects the table store: "workbook" or "postgres".
	Backend      string
	WorkbookPath string
	Database     DatabaseConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type CronConfig struct {
	// ReportSpec is the cron expression for unattended Horganice imports.
	ReportSpec string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Sources: SourcesConfig{
			ReportDir: getEnv("HORG_REPORT_DIR", "data/horganice"),
			BankDir:   getEnv("BANK_CSV_DIR", "data/bank"),
		},
		Billing: BillingConfig{
			Timezone: getEnv("BILLING_TIMEZONE", "Asia/Bangkok"),
			CycleDay: getEnvAsInt("BILLING_CYCLE_DAY", 24),
		},
		Accounts: AccountsConfig{
			Codes: splitList(getEnv("ACCOUNT_CODES", "KKK+,KBIZ,KGSI,TMK+")),
			FloorAccounts: map[string]string{
				"1": getEnv("ACCOUNT_FLOOR_1", "KKK+"),
				"2": getEnv("ACCOUNT_FLOOR_2", "MAK+"),
				"3": getEnv("ACCOUNT_FLOOR_3", "KGSI"),
				"4": getEnv("ACCOUNT_FLOOR_4", "GSB"),
				"5": getEnv("ACCOUNT_FLOOR_5", "GSB"),
			},
		},
		Store: StoreConfig{
			Backend:      getEnv("STORE_BACKEND", "workbook"),
			WorkbookPath: getEnv("STORE_WORKBOOK_PATH", "ledger.xlsx"),
			Database: DatabaseConfig{
				Host:     getEnv("POSTGRES_HOST", "localhost"),
				Port:     getEnvAsInt("POSTGRES_PORT", 5432),
				User:     getEnv("POSTGRES_USER", "postgres"),
				Password: getEnv("POSTGRES_PASSWORD", "postgres"),
				Database: getEnv("POSTGRES_DB", "mansion-ledger"),
				SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			},
		},
		Cron: CronConfig{
			ReportSpec: getEnv("REPORT_CRON_SPEC", "0 6 * * *"),
		},
	}

	if _, err := time.LoadLocation(cfg.Billing.Timezone); err != nil {
		return nil, fmt.Errorf("invalid BILLING_TIMEZONE %q: %w", cfg.Billing.Timezone, err)
	}
	if cfg.Store.Backend != "workbook" && cfg.Store.Backend != "postgres" {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (want workbook or postgres)", cfg.Store.Backend)
	}
	if len(cfg.Accounts.Codes) == 0 {
		return nil, fmt.Errorf("ACCOUNT_CODES must list at least one account")
	}

	return cfg, nil
}

// Location resolves the configured billing timezone. Load has already
// validated it.
func (c *BillingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}
