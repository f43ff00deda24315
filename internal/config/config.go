package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the dashboard service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTPPort: The port of the dashboard HTTP server.
// - Provider: Which geocoding provider resolves search queries.
// - Upstream: Timeouts, user agent and base URLs of the seismic and alert feeds.
// - Dashboard: Refresh cadence and the timezone used for chart labels.
// - Database: Optional PostgreSQL place cache. Disabled when Host is empty.
type Config struct {
	Env       string          `mapstructure:"env"`       // Env is the current environment: local, development, production.
	HTTPPort  int             `mapstructure:"http.port"` // HTTPPort is the dashboard server port.
	Provider  ProviderConfig  `mapstructure:"provider"`  // Provider holds the geocoding provider settings.
	Upstream  UpstreamConfig  `mapstructure:"upstream"`  // Upstream holds the feed client settings.
	Dashboard DashboardConfig `mapstructure:"dashboard"` // Dashboard holds the refresh settings.
	Database  PostgresConfig  `mapstructure:"postgres"`  // Database holds the postgres database configuration.
}

// ProviderConfig selects and configures the geocoding provider.
type ProviderConfig struct {
	Type      string `mapstructure:"type"`       // Type is google, nominatim or visicom.
	APIKey    string `mapstructure:"api_key"`    // APIKey is required by google and visicom.
	RateLimit int    `mapstructure:"rate_limit"` // RateLimit is the maximum requests per second.
}

// UpstreamConfig configures the HTTP clients of the external feeds.
type UpstreamConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`
	SeismicURL string        `mapstructure:"seismic_url"`
	AlertsURL  string        `mapstructure:"alerts_url"`
}

// DashboardConfig configures the refresh cycle.
type DashboardConfig struct {
	RefreshInterval time.Duration  `mapstructure:"refresh_interval"` // Zero disables periodic refresh.
	Location        *time.Location `mapstructure:"timezone"`         // Location renders chart dates.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"db_name"`  // Name is the name of the database.
}

// Enabled reports whether the place cache should be used.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

var bindings = []struct {
	key, env, fallback string
}{
	{"env", "QUAKEWATCH_ENV", "production"},
	{"http.port", "QUAKEWATCH_HTTP_PORT", "8080"},
	{"provider.type", "QUAKEWATCH_PROVIDER_TYPE", "nominatim"},
	{"provider.api_key", "QUAKEWATCH_PROVIDER_KEY", ""},
	{"provider.rate_limit", "QUAKEWATCH_PROVIDER_RATE_LIMIT", "1"},
	{"upstream.timeout", "QUAKEWATCH_REQUEST_TIMEOUT", "10s"},
	{"upstream.user_agent", "QUAKEWATCH_USER_AGENT", "QuakeWatch-Dashboard/1.0 (https://github.com/UnknownOlympus/quakewatch)"},
	{"upstream.seismic_url", "QUAKEWATCH_SEISMIC_URL", "https://earthquake.usgs.gov"},
	{"upstream.alerts_url", "QUAKEWATCH_ALERTS_URL", "https://www.gdacs.org/xml/rss.xml"},
	{"dashboard.refresh_interval", "QUAKEWATCH_REFRESH_INTERVAL", "0"},
	{"dashboard.timezone", "QUAKEWATCH_DISPLAY_TIMEZONE", "UTC"},
	{"postgres.host", "DB_HOST", ""},
	{"postgres.port", "DB_PORT", "5432"},
	{"postgres.user", "DB_USERNAME", ""},
	{"postgres.password", "DB_PASSWORD", ""},
	{"postgres.db_name", "DB_NAME", ""},
}

// MustLoad reads .env, the optional YAML file named by QUAKEWATCH_CONFIG_FILE and the
// environment, in increasing order of precedence. It panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	for _, b := range bindings {
		v.SetDefault(b.key, b.fallback)
		_ = v.BindEnv(b.key, b.env)
	}

	_ = v.BindEnv("config_file", "QUAKEWATCH_CONFIG_FILE")
	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	port, err := strconv.Atoi(v.GetString("http.port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("provider.rate_limit"))
	if err != nil || rateLimit <= 0 {
		panic("failed to parse provider rate limit from configuration, must be a positive integer")
	}

	timeout, err := time.ParseDuration(v.GetString("upstream.timeout"))
	if err != nil {
		panic("failed to parse request timeout from configuration")
	}

	refresh, err := time.ParseDuration(v.GetString("dashboard.refresh_interval"))
	if err != nil || refresh < 0 {
		panic("failed to parse refresh interval from configuration")
	}

	location, err := time.LoadLocation(v.GetString("dashboard.timezone"))
	if err != nil {
		panic("failed to load display timezone from configuration")
	}

	return &Config{
		Env:      v.GetString("env"),
		HTTPPort: port,
		Provider: ProviderConfig{
			Type:      v.GetString("provider.type"),
			APIKey:    v.GetString("provider.api_key"),
			RateLimit: rateLimit,
		},
		Upstream: UpstreamConfig{
			Timeout:    timeout,
			UserAgent:  v.GetString("upstream.user_agent"),
			SeismicURL: v.GetString("upstream.seismic_url"),
			AlertsURL:  v.GetString("upstream.alerts_url"),
		},
		Dashboard: DashboardConfig{
			RefreshInterval: refresh,
			Location:        location,
		},
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}
