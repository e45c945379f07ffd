package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
[server]
http_port = 8083
read_timeout = 15
write_timeout = 15
idle_timeout = 60
shutdown_timeout = 10

[database]
host = "localhost"
port = 5432
user = "postgres"
password = "postgres"
dbname = "smc_rental"
sslmode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = 300

[logs]
file = "logs/rental-service.log"
level = "info"

[metrics]
enabled = true
path = "/metrics"
service_name = "smc-rental-service"

[car_service]
url = "http://localhost:8081"
timeout = 5

[user_service]
url = "http://localhost:8082"
timeout = 5

[rental]
default_location = "Tunis, Tunisie"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 8083, cfg.Server.HTTPPort)
	assert.Equal(t, "smc_rental", cfg.Database.DBName)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=smc_rental sslmode=disable",
		cfg.Database.DSN())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "http://localhost:8081", cfg.CarService.URL)
	assert.Equal(t, "Tunis, Tunisie", cfg.Rental.DefaultLocation)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"zero port", `http_port = 8083`, `http_port = 0`},
		{"empty dbname", `dbname = "smc_rental"`, `dbname = ""`},
		{"empty log file", `file = "logs/rental-service.log"`, `file = ""`},
		{"empty metrics path", `path = "/metrics"`, `path = ""`},
		{"empty car service url", `url = "http://localhost:8081"`, `url = ""`},
		{"empty default location", `default_location = "Tunis, Tunisie"`, `default_location = ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := strings.Replace(validConfig, tt.old, tt.new, 1)
			_, err := Load(writeConfig(t, broken))
			assert.Error(t, err)
		})
	}
}
