package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Payment   PaymentConfig   `yaml:"payment"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Broker    BrokerConfig    `yaml:"broker"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string `yaml:"host" envconfig:"SERVER_HOST"`
	Port            int    `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeoutSec  int    `yaml:"read_timeout_seconds" envconfig:"SERVER_READ_TIMEOUT_SECONDS"`
	WriteTimeoutSec int    `yaml:"write_timeout_seconds" envconfig:"SERVER_WRITE_TIMEOUT_SECONDS"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	Database string `yaml:"database" envconfig:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"DB_SSL_MODE"`
	MaxConns int    `yaml:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS"`
}

// JWTConfig contains identity token settings
type JWTConfig struct {
	Secret            string `yaml:"secret" envconfig:"JWT_SECRET"`
	Issuer            string `yaml:"issuer" envconfig:"JWT_ISSUER"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes" envconfig:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES"`
}

// PaymentConfig contains payment gateway (Omise) settings
type PaymentConfig struct {
	PublicKey string `yaml:"public_key" envconfig:"OMISE_PUBLIC_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"OMISE_SECRET_KEY"`
	Currency  string `yaml:"currency" envconfig:"PAYMENT_CURRENCY"`
}

// SendGridConfig contains email delivery settings. Email is disabled without an API key.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key" envconfig:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"from_email" envconfig:"SENDGRID_FROM_EMAIL"`
	FromName  string `yaml:"from_name" envconfig:"SENDGRID_FROM_NAME"`
}

// FirebaseConfig contains push notification settings. Push is disabled without credentials.
type FirebaseConfig struct {
	CredentialsFile string `yaml:"credentials_file" envconfig:"FIREBASE_CREDENTIALS_FILE"`
	ProjectID       string `yaml:"project_id" envconfig:"FIREBASE_PROJECT_ID"`
}

// BrokerConfig contains RabbitMQ settings. Publishing is disabled without a URL.
type BrokerConfig struct {
	URL      string `yaml:"url" envconfig:"RABBITMQ_URL"`
	Exchange string `yaml:"exchange" envconfig:"RABBITMQ_EXCHANGE"`
}

// TracingConfig contains OpenTelemetry exporter settings. Tracing is a no-op without an endpoint.
type TracingConfig struct {
	Endpoint    string `yaml:"otlp_endpoint" envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" envconfig:"OTEL_SERVICE_NAME"`
	Environment string `yaml:"environment" envconfig:"ENV"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" envconfig:"LOG_FORMAT"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ActivateStartedBookings  string `yaml:"activate_started_bookings" envconfig:"CRON_ACTIVATE_STARTED_BOOKINGS"`
	CompleteFinishedBookings string `yaml:"complete_finished_bookings" envconfig:"CRON_COMPLETE_FINISHED_BOOKINGS"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, applies environment overrides and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.overrideWithEnv(); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables.
// Only variables that are set replace the YAML values.
func (c *Config) overrideWithEnv() error {
	sections := []any{
		&c.Server, &c.Database, &c.JWT, &c.Payment, &c.SendGrid,
		&c.Firebase, &c.Broker, &c.Tracing, &c.Log, &c.Scheduler,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
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

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Payment validation
	if c.Payment.PublicKey == "" || c.Payment.SecretKey == "" {
		return fmt.Errorf("payment gateway keys are required")
	}

	// Defaults
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.ReadTimeoutSec == 0 {
		c.Server.ReadTimeoutSec = 15
	}
	if c.Server.WriteTimeoutSec == 0 {
		c.Server.WriteTimeoutSec = 30
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "growshare-auth"
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "usd"
	}
	if c.Broker.Exchange == "" {
		c.Broker.Exchange = "growshare.events"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "growshare-backend"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Scheduler defaults
	if c.Scheduler.ActivateStartedBookings == "" {
		c.Scheduler.ActivateStartedBookings = "0 5 0 * * *" // 00:05 UTC
	}
	if c.Scheduler.CompleteFinishedBookings == "" {
		c.Scheduler.CompleteFinishedBookings = "0 10 0 * * *" // 00:10 UTC
	}

	return nil
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

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AccessTokenTTL returns the access token lifetime
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}
