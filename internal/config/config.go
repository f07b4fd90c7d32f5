package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Email     EmailConfig     `yaml:"email"`
	CORS      CORSConfig      `yaml:"cors"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Rental    RentalConfig    `yaml:"rental"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Admin     AdminConfig     `yaml:"admin"`
	Forum     ForumConfig     `yaml:"forum"`
}

// ServerConfig contains HTTP and health server settings
type ServerConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	GRPCHealthPort         int    `yaml:"grpc_health_port"`
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Database      string `yaml:"database"`
	SSLMode       string `yaml:"ssl_mode"`
	MaxOpenConns  int    `yaml:"max_open_conns"`
	MaxIdleConns  int    `yaml:"max_idle_conns"`
	LockTimeoutMs int    `yaml:"lock_timeout_ms"`
	AutoMigrate   bool   `yaml:"auto_migrate"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// EmailConfig contains SendGrid settings. An empty API key logs mail
// instead of sending it.
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	From           string `yaml:"from"`
	FromName       string `yaml:"from_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LedgerConfig controls which money movements are written to the ledger
type LedgerConfig struct {
	// RecordRentalCharges writes an EXPENSE entry for every paid rental.
	// Defaults to true when unset.
	RecordRentalCharges *bool `yaml:"record_rental_charges"`
}

type RentalConfig struct {
	ReminderAfterHours int `yaml:"reminder_after_hours"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (with seconds field)
type SchedulerConfig struct {
	ReconcileBalances string `yaml:"reconcile_balances"`
	RemindLongRentals string `yaml:"remind_long_rentals"`
}

// AdminConfig names the bootstrap administrator created at startup when no
// user holds the username. Leaving the username empty disables it.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

// ForumConfig lists the tags seeded at startup. Empty uses the built-in set.
type ForumConfig struct {
	DefaultTags []string `yaml:"default_tags"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, applies environment overrides and
// validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}
	if val := os.Getenv("DB_LOCK_TIMEOUT_MS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.LockTimeoutMs)
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("GRPC_HEALTH_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.GRPCHealthPort)
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	// Bootstrap admin
	if val := os.Getenv("ADMIN_USERNAME"); val != "" {
		c.Admin.Username = val
	}
	if val := os.Getenv("ADMIN_PASSWORD"); val != "" {
		c.Admin.Password = val
	}
	if val := os.Getenv("ADMIN_EMAIL"); val != "" {
		c.Admin.Email = val
	}

	// CORS
	if val := os.Getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORS.AllowedOrigins = strings.Split(val, ",")
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCHealthPort < 0 || c.Server.GRPCHealthPort > 65535 {
		return fmt.Errorf("invalid grpc health port: %d", c.Server.GRPCHealthPort)
	}
	if c.Server.GRPCHealthPort != 0 && c.Server.GRPCHealthPort == c.Server.Port {
		return fmt.Errorf("grpc health port must differ from server port")
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 15
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = 30
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.LockTimeoutMs < 0 {
		return fmt.Errorf("invalid lock timeout: %d", c.Database.LockTimeoutMs)
	}
	if c.Database.LockTimeoutMs == 0 {
		c.Database.LockTimeoutMs = 5000
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 30
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}

	// Email
	if c.Email.SendGridAPIKey != "" && c.Email.From == "" {
		return fmt.Errorf("email sender address is required when SendGrid is enabled")
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Sailing Club"
	}

	// Bootstrap admin
	if c.Admin.Username != "" && len(c.Admin.Password) < 6 {
		return fmt.Errorf("admin password must be at least 6 characters")
	}

	// CORS
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}

	// Ledger defaults
	if c.Ledger.RecordRentalCharges == nil {
		enabled := true
		c.Ledger.RecordRentalCharges = &enabled
	}

	// Rental defaults
	if c.Rental.ReminderAfterHours <= 0 {
		c.Rental.ReminderAfterHours = 24
	}

	// Scheduler defaults
	if c.Scheduler.ReconcileBalances == "" {
		c.Scheduler.ReconcileBalances = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.RemindLongRentals == "" {
		c.Scheduler.RemindLongRentals = "0 0 * * * *" // hourly
	}

	return nil
}

// BootstrapAdmin reports whether a bootstrap administrator is configured.
func (c *Config) BootstrapAdmin() bool {
	return c.Admin.Username != ""
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHealthAddress returns the gRPC health server address
func (c *Config) GetHealthAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCHealthPort)
}

func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Database.LockTimeoutMs) * time.Millisecond
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTokenExpiry) * time.Minute
}

// RecordsRentalCharges reports whether rentals write EXPENSE ledger entries.
func (c *Config) RecordsRentalCharges() bool {
	return c.Ledger.RecordRentalCharges == nil || *c.Ledger.RecordRentalCharges
}

func (c *Config) RentalReminderAfter() time.Duration {
	return time.Duration(c.Rental.ReminderAfterHours) * time.Hour
}
