package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
env: "local"
data_dir: "./data"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, SourceExcel, cfg.Source)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 60, cfg.WarningThresholdDays)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "localhost:4001", cfg.Address)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
}

func TestLoad_EnvOverridesThreshold(t *testing.T) {
	t.Setenv("WARNING_THRESHOLD_DAYS", "30")

	path := writeConfig(t, `
data_dir: "./data"
warning_threshold_days: 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.WarningThresholdDays)
}

func TestLoad_MySQLRequiresCredentials(t *testing.T) {
	path := writeConfig(t, `
source: "mysql"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_UnknownSource(t *testing.T) {
	path := writeConfig(t, `
source: "ftp"
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown snapshot source")
}

func TestLoad_RejectsNonPositiveThreshold(t *testing.T) {
	path := writeConfig(t, `
data_dir: "./data"
warning_threshold_days: -5
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "warning_threshold_days")
}

func TestDSN(t *testing.T) {
	cfg := Config{
		DBUser:     "dash",
		DBPassword: "secret",
		DBHost:     "db",
		DBPort:     3306,
		DBName:     "certs",
		ParseTime:  true,
	}

	assert.Equal(t, "dash:secret@tcp(db:3306)/certs?parseTime=true", cfg.DSN())
}

func TestDSN_PasswordWithSeparators(t *testing.T) {
	cfg := Config{
		DBUser:     "dash",
		DBPassword: "p@ss/w:rd?x",
		DBHost:     "db",
		DBPort:     3307,
		DBName:     "certs",
	}

	parsed, err := mysql.ParseDSN(cfg.DSN())
	require.NoError(t, err)

	assert.Equal(t, "dash", parsed.User)
	assert.Equal(t, "p@ss/w:rd?x", parsed.Passwd)
	assert.Equal(t, "db:3307", parsed.Addr)
	assert.Equal(t, "certs", parsed.DBName)
	assert.False(t, parsed.ParseTime)
}
