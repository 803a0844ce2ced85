package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	GeoIP    GeoIPConfig    `mapstructure:"geoip"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
}

type SessionConfig struct {
	// Secret signs the session cookie token. The server refuses to start
	// without it.
	Secret         string `mapstructure:"secret"`
	CookieName     string `mapstructure:"cookie_name"`
	RememberMaxAge string `mapstructure:"remember_max_age"`
	BcryptCost     int    `mapstructure:"bcrypt_cost"`
}

type GeoIPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Timeout  string `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("session.cookie_name", "__session")
	v.SetDefault("session.remember_max_age", "7d")
	v.SetDefault("session.bcrypt_cost", 0) // 0 means bcrypt.DefaultCost
	v.SetDefault("geoip.endpoint", "http://ip-api.com/json")
	v.SetDefault("geoip.timeout", "5s")
	v.SetDefault("logging.level", "info")

	// Read environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &cfg.Server.Port)
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.Session.Secret = secret
	}

	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}

	return &cfg, nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// GetURL returns the postgres:// URL used by golang-migrate
func (c *DatabaseConfig) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

func (c *ServerConfig) GetReadTimeout() (time.Duration, error) {
	return parseDuration(c.ReadTimeout)
}

func (c *ServerConfig) GetWriteTimeout() (time.Duration, error) {
	return parseDuration(c.WriteTimeout)
}

func (c *ServerConfig) GetShutdownTimeout() (time.Duration, error) {
	return parseDuration(c.ShutdownTimeout)
}

func (c *DatabaseConfig) GetConnMaxLifetime() (time.Duration, error) {
	return parseDuration(c.ConnMaxLifetime)
}

func (c *SessionConfig) GetRememberMaxAge() (time.Duration, error) {
	return parseDuration(c.RememberMaxAge)
}

func (c *GeoIPConfig) GetTimeout() (time.Duration, error) {
	return parseDuration(c.Timeout)
}

// parseDuration parses duration strings like "7d", "24h", "30m"
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	// Handle days (e.g., "7d")
	if len(s) > 1 && s[len(s)-1] == 'd' {
		days := s[:len(s)-1]
		var d int
		_, err := fmt.Sscanf(days, "%d", &d)
		if err != nil {
			return 0, fmt.Errorf("invalid duration format: %s", s)
		}
		return time.Duration(d) * 24 * time.Hour, nil
	}

	// Use standard time.ParseDuration for other formats
	return time.ParseDuration(s)
}
