// Package config provides configuration management for the bot.
// Values come from built-in defaults, an optional YAML file and the environment,
// with the environment taking precedence.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Roles holds the Discord role IDs that map onto permission tiers.
type Roles struct {
	Moderator  string `yaml:"moderator"`
	SrMod      string `yaml:"sr_mod"`
	Admin      string `yaml:"admin"`
	Supervisor string `yaml:"supervisor"`
	Management string `yaml:"management"`
	Owner      string `yaml:"owner"`
}

// RCON describes a remote console endpoint.
type RCON struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
}

// Address returns host:port.
func (r RCON) Address() string {
	return net.JoinHostPort(r.Host, r.Port)
}

// Enabled reports whether the endpoint has enough settings to dial.
func (r RCON) Enabled() bool {
	return r.Host != "" && r.Password != ""
}

// Schedules holds cron expressions for the recurring jobs.
type Schedules struct {
	Restart          string `yaml:"restart"`
	RestartTimezone  string `yaml:"restart_timezone"`
	WeeklyReport     string `yaml:"weekly_report"`
	ReportTimezone   string `yaml:"report_timezone"`
	StaffOnlineEvery int    `yaml:"staff_online_seconds"`
	StaffTracking    bool   `yaml:"staff_tracking"`
}

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string `yaml:"discord_token"`
	GuildID    string `yaml:"guild_id"`
	DevGuildID string `yaml:"dev_guild_id"`
	OwnerID    string `yaml:"owner_id"`
	EmbedColor int    `yaml:"embed_color"`

	// Channels
	LogChannelID        string `yaml:"log_channel_id"`
	DMLogChannelID      string `yaml:"dm_log_channel_id"`
	InfractionChannelID string `yaml:"infraction_channel_id"`
	TicketCategoryID    string `yaml:"ticket_category_id"`

	// Roles
	Roles                   Roles    `yaml:"roles"`
	StaffRoleID             string   `yaml:"staff_role_id"`
	CurrentlyModeratingRole string   `yaml:"currently_moderating_role_id"`
	GuruRoleID              string   `yaml:"guru_role_id"`
	GuruReportRecipients    []string `yaml:"guru_report_recipients"`

	// MongoDB
	MongoDBURL string `yaml:"mongodb_uri"`
	DBName     string `yaml:"mongodb_database"`

	// Minecraft
	RCON       RCON      `yaml:"rcon"`
	ProxyRCON  RCON      `yaml:"proxy_rcon"`
	ProfileAPI string    `yaml:"profile_api_url"`
	Schedules  Schedules `yaml:"schedules"`

	// MQTT
	MQTTHost     string `yaml:"mqtt_host"`
	MQTTPort     string `yaml:"mqtt_port"`
	MQTTUser     string `yaml:"mqtt_user"`
	MQTTPassword string `yaml:"mqtt_password"`

	// Web Server
	Port string `yaml:"port"`
	// WebAllowedHosts is a regexp the request Host must match; empty allows any.
	WebAllowedHosts string `yaml:"web_allowed_hosts"`
	// Status is the bot's "Watching" activity.
	Status string `yaml:"status"`

	// Environment
	Environment string `yaml:"environment"`

	// Webhooks
	ErrorWebhook      string `yaml:"error_webhook"`
	LogsWebhook       string `yaml:"logs_webhook"`
	LogsWebServerHook string `yaml:"web_logs_webhook"`
}

var (
	Version   = "dev-local"
	BuildTime = "unknown"
)

// DefaultProxyRCONPort is used when neither the host nor the env carries a port.
const DefaultProxyRCONPort = "27242"

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgErr = nil
	cfgOnce = sync.Once{}
}

// Defaults returns the configuration used before the YAML file and the
// environment are applied.
func Defaults() Config {
	return Config{
		EmbedColor: 0x10B981,
		MongoDBURL: "mongodb://localhost:27017",
		DBName:     "newlife",
		RCON:       RCON{Host: "", Port: "25575"},
		ProxyRCON:  RCON{Host: "", Port: DefaultProxyRCONPort},
		ProfileAPI: "https://mcprofile.io",
		Schedules: Schedules{
			Restart:          "0 6 * * *",
			RestartTimezone:  "UTC",
			WeeklyReport:     "0 9 * * 1",
			ReportTimezone:   "America/New_York",
			StaffOnlineEvery: 30,
			StaffTracking:    true,
		},
		MQTTHost:    "localhost",
		MQTTPort:    "1883",
		Port:        "3000",
		Status:      "NewLife SMP",
		Environment: "dev",
	}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	c := Defaults()

	path := getEnv("CONFIG_PATH", "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &c); err != nil {
			cfgErr = fmt.Errorf("parse %s: %w", path, err)
			return
		}
	}

	applyEnv(&c)
	cfg = &c
}

func applyEnv(c *Config) {
	// Discord
	c.BotToken = getEnv("DISCORD_TOKEN", c.BotToken)
	c.GuildID = getEnv("GUILD_ID", c.GuildID)
	c.DevGuildID = getEnv("DEV_GUILD_ID", c.DevGuildID)
	c.OwnerID = getEnv("OWNER_ID", getEnv("OWNER_USER_ID", c.OwnerID))
	c.EmbedColor = getEnvColor("EMBED_COLOR", c.EmbedColor)

	// Channels
	c.LogChannelID = getEnv("LOG_CHANNEL_ID", c.LogChannelID)
	c.DMLogChannelID = getEnv("DM_LOG_CHANNEL_ID", c.DMLogChannelID)
	c.InfractionChannelID = getEnv("INFRACTION_CHANNEL_ID", c.InfractionChannelID)
	c.TicketCategoryID = getEnv("TICKET_CATEGORY_ID", c.TicketCategoryID)

	// Roles
	c.Roles.Moderator = getEnv("MODERATOR_ROLE_ID", c.Roles.Moderator)
	c.Roles.SrMod = getEnv("SR_MOD_ROLE_ID", c.Roles.SrMod)
	c.Roles.Admin = getEnv("ADMIN_ROLE_ID", c.Roles.Admin)
	c.Roles.Supervisor = getEnv("SUPERVISOR_ROLE_ID", c.Roles.Supervisor)
	c.Roles.Management = getEnv("MANAGEMENT_ROLE_ID", c.Roles.Management)
	c.Roles.Owner = getEnv("OWNER_ROLE_ID", c.Roles.Owner)
	c.StaffRoleID = getEnv("STAFF_TEAM", getEnv("STAFF_ROLE_ID", c.StaffRoleID))
	c.CurrentlyModeratingRole = getEnv("CURRENTLY_MODERATING_ROLE_ID", c.CurrentlyModeratingRole)
	c.GuruRoleID = getEnv("WHITELIST_GURU_ROLE_ID", c.GuruRoleID)
	if v := os.Getenv("GURU_REPORT_RECIPIENTS"); v != "" {
		c.GuruReportRecipients = splitList(v)
	}

	// MongoDB
	c.MongoDBURL = getEnv("MONGODB_URI", c.MongoDBURL)
	c.DBName = getEnv("MONGODB_DATABASE", c.DBName)

	// Minecraft
	c.RCON.Host = getEnv("RCON_HOST", c.RCON.Host)
	c.RCON.Port = getEnv("RCON_PORT", c.RCON.Port)
	c.RCON.Password = getEnv("RCON_PASSWORD", c.RCON.Password)
	c.ProxyRCON.Host = getEnv("PROXY_RCON_HOST", c.ProxyRCON.Host)
	c.ProxyRCON.Port = getEnv("PROXY_RCON_PORT", c.ProxyRCON.Port)
	c.ProxyRCON.Password = getEnv("PROXY_RCON_PASSWORD", c.ProxyRCON.Password)
	c.ProxyRCON = splitHostPort(c.ProxyRCON, os.Getenv("PROXY_RCON_PORT") != "")
	c.ProfileAPI = getEnv("PROFILE_API_URL", c.ProfileAPI)

	// Schedules
	c.Schedules.Restart = getEnv("RESTART_CRON", c.Schedules.Restart)
	c.Schedules.RestartTimezone = getEnv("RESTART_TIMEZONE", c.Schedules.RestartTimezone)
	c.Schedules.WeeklyReport = getEnv("WEEKLY_REPORT_CRON", c.Schedules.WeeklyReport)
	c.Schedules.ReportTimezone = getEnv("WEEKLY_REPORT_TIMEZONE", c.Schedules.ReportTimezone)
	c.Schedules.StaffOnlineEvery = getEnvInt("STAFF_ONLINE_SECONDS", c.Schedules.StaffOnlineEvery)
	if v := os.Getenv("STAFF_TRACKING_ENABLED"); v != "" {
		c.Schedules.StaffTracking = v != "false"
	}

	// MQTT
	c.MQTTHost = getEnv("MQTT_HOST", c.MQTTHost)
	c.MQTTPort = getEnv("MQTT_PORT", c.MQTTPort)
	c.MQTTUser = getEnv("MQTT_USER", c.MQTTUser)
	c.MQTTPassword = getEnv("MQTT_PASSWORD", c.MQTTPassword)

	// Web Server
	c.Port = getEnv("API_PORT", getEnv("PORT", c.Port))
	c.WebAllowedHosts = getEnv("WEB_ALLOWED_HOSTS", c.WebAllowedHosts)
	c.Status = getEnv("BOT_STATUS", c.Status)

	// Environment
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	// Webhooks
	c.ErrorWebhook = getEnv("ERROR_WEBHOOK", c.ErrorWebhook)
	c.LogsWebhook = getEnv("LOGS_WEBHOOK", c.LogsWebhook)
	c.LogsWebServerHook = getEnv("WEB_LOGS_WEBHOOK", c.LogsWebServerHook)
}

// Load initializes the configuration from the YAML file and environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Get returns the current configuration
func Get() *Config {
	cfgOnce.Do(loadConfig)
	if cfg == nil {
		d := Defaults()
		return &d
	}
	return cfg
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.GuildID == "" {
		return fmt.Errorf("GUILD_ID is required")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvColor accepts "#10B981", "0x10B981" or a decimal value.
func getEnvColor(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return ParseColor(value, defaultValue)
}

// ParseColor parses a hex or decimal color string.
func ParseColor(value string, fallback int) int {
	v := strings.TrimSpace(value)
	base := 10
	switch {
	case strings.HasPrefix(v, "#"):
		v, base = v[1:], 16
	case strings.HasPrefix(strings.ToLower(v), "0x"):
		v, base = v[2:], 16
	}
	n, err := strconv.ParseInt(v, base, 32)
	if err != nil {
		return fallback
	}
	return int(n)
}

// splitHostPort moves a port embedded in Host into Port unless the port was
// set explicitly.
func splitHostPort(r RCON, explicitPort bool) RCON {
	host, port, err := net.SplitHostPort(r.Host)
	if err != nil {
		return r
	}
	r.Host = host
	if !explicitPort && port != "" {
		r.Port = port
	}
	return r
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}
