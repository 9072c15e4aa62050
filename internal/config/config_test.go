package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8090

[database]
host = "localhost"
port = 5432
user = "scheduling"
password = "from-file"
dbname = "scheduling"

[auth]
jwt_secret = "file-secret"

[booking.staff_fairness]
scope_days = 0

[public]
cors_origins = ["https://widget.example.com"]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaultsAndEnv(t *testing.T) {
	t.Setenv(EnvDBPassword, "from-env")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"pending", "confirmed"}, cfg.Booking.StaffFairness.Statuses)
	assert.Equal(t, 30, cfg.Booking.PublicFairness.ScopeDays)
	assert.Equal(t, []string{"pending", "confirmed", "completed"}, cfg.Booking.PublicFairness.Statuses)
	assert.Equal(t, []string{"https://widget.example.com"}, cfg.Public.CORSOrigins)
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	body := `
[database]
port = 5432
`
	t.Setenv(EnvJWTSecret, "")
	_, err := Load(writeConfig(t, body))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestValidateNegativeFairnessWindow(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{HTTPPort: 8080},
		Database: DatabaseConfig{Port: 5432},
		Auth:     AuthConfig{JWTSecret: "x"},
		Booking:  BookingConfig{PublicFairness: FairnessConfig{ScopeDays: -1}},
	}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestLoadKeepsExplicitZeroPublicFairnessWindow(t *testing.T) {
	body := sampleConfig + `
[booking.public_fairness]
scope_days = 0
statuses = ["pending", "confirmed"]
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Booking.PublicFairness.ScopeDays)
	assert.Equal(t, []string{"pending", "confirmed"}, cfg.Booking.PublicFairness.Statuses)
}

func TestLoadRejectsBadFairnessStatuses(t *testing.T) {
	tests := []struct {
		name     string
		statuses string
	}{
		{"wrong case", `["Pending", "Confirmed"]`},
		{"unknown status", `["pending", "booked"]`},
		{"empty list", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := sampleConfig + "\n[booking.public_fairness]\nstatuses = " + tt.statuses + "\n"
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
