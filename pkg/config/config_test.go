package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("PORT", "3001")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("MODERATOR_ROLE_ID", "111")
	t.Setenv("OWNER_USER_ID", "999")

	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}
	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}
	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
	if config.Roles.Moderator != "111" {
		t.Errorf("Roles.Moderator = %v, want %v", config.Roles.Moderator, "111")
	}
	if config.OwnerID != "999" {
		t.Errorf("OwnerID = %v, want %v", config.OwnerID, "999")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := []byte(`
guild_id: "123"
roles:
  admin: "555"
  management: "666"
schedules:
  restart: "30 5 * * *"
`)
	if err := os.WriteFile(path, yml, 0o600); err != nil {
		t.Fatal(err)
	}
	clearEnv(t, "GUILD_ID", "ADMIN_ROLE_ID", "RESTART_CRON")
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("MANAGEMENT_ROLE_ID", "777")

	resetForTesting()
	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.GuildID != "123" {
		t.Errorf("GuildID = %v, want %v", config.GuildID, "123")
	}
	if config.Roles.Admin != "555" {
		t.Errorf("Roles.Admin = %v, want %v", config.Roles.Admin, "555")
	}
	// env wins over yaml
	if config.Roles.Management != "777" {
		t.Errorf("Roles.Management = %v, want %v", config.Roles.Management, "777")
	}
	if config.Schedules.Restart != "30 5 * * *" {
		t.Errorf("Schedules.Restart = %v, want %v", config.Schedules.Restart, "30 5 * * *")
	}
	// untouched defaults survive the overlay
	if config.Schedules.WeeklyReport != "0 9 * * 1" {
		t.Errorf("Schedules.WeeklyReport = %v, want %v", config.Schedules.WeeklyReport, "0 9 * * 1")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("roles: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	resetForTesting()
	if _, err := Load(); err == nil {
		t.Error("Load() should fail on malformed yaml")
	}
	resetForTesting()
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}

	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestIsProd(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	resetForTesting()
	t.Setenv("ENVIRONMENT", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	t.Setenv("ENVIRONMENT", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}
}

func TestGet(t *testing.T) {
	resetForTesting()

	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestProxyHostPort(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     string
		wantHost string
		wantPort string
	}{
		{"plain host", "proxy.local", "", "proxy.local", DefaultProxyRCONPort},
		{"embedded port", "proxy.local:30000", "", "proxy.local", "30000"},
		{"explicit port wins", "proxy.local:30000", "28000", "proxy.local", "28000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv("PROXY_RCON_HOST", tt.host)
			if tt.port != "" {
				t.Setenv("PROXY_RCON_PORT", tt.port)
			} else {
				clearEnv(t, "PROXY_RCON_PORT")
			}

			resetForTesting()
			config, _ := Load()

			if config.ProxyRCON.Host != tt.wantHost {
				t.Errorf("ProxyRCON.Host = %v, want %v", config.ProxyRCON.Host, tt.wantHost)
			}
			if config.ProxyRCON.Port != tt.wantPort {
				t.Errorf("ProxyRCON.Port = %v, want %v", config.ProxyRCON.Port, tt.wantPort)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"#10B981", 0x10B981},
		{"0xFF0000", 0xFF0000},
		{"255", 255},
		{"nope", 42},
	}
	for _, tt := range tests {
		if got := ParseColor(tt.in, 42); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultValues(t *testing.T) {
	clearEnv(t, "DISCORD_TOKEN", "MONGODB_URI", "MONGODB_DATABASE", "MQTT_HOST", "MQTT_PORT",
		"PORT", "API_PORT", "ENVIRONMENT", "RESTART_CRON", "WEEKLY_REPORT_CRON")
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	resetForTesting()
	config, _ := Load()

	if config.MongoDBURL != "mongodb://localhost:27017" {
		t.Errorf("MongoDBURL default = %v, want %v", config.MongoDBURL, "mongodb://localhost:27017")
	}
	if config.DBName != "newlife" {
		t.Errorf("DBName default = %v, want %v", config.DBName, "newlife")
	}
	if config.MQTTPort != "1883" {
		t.Errorf("MQTTPort default = %v, want %v", config.MQTTPort, "1883")
	}
	if config.Port != "3000" {
		t.Errorf("Port default = %v, want %v", config.Port, "3000")
	}
	if config.Schedules.Restart != "0 6 * * *" {
		t.Errorf("Schedules.Restart default = %v, want %v", config.Schedules.Restart, "0 6 * * *")
	}
	if config.Schedules.StaffOnlineEvery != 30 {
		t.Errorf("Schedules.StaffOnlineEvery default = %v, want %v", config.Schedules.StaffOnlineEvery, 30)
	}
	if err := config.Validate(); err == nil {
		t.Error("Validate() should fail without a token")
	}
}
