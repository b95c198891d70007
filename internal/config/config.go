package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"

	"clubstay-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Staff     []domain.Staff  `yaml:"staff"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
	Clock     ClockConfig     `yaml:"clock"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DatabaseConfig selects the reservation store. Driver "memory" keeps
// everything in process; "postgres" and "mysql" use the connection fields.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type JWTConfig struct {
	Secret            string `yaml:"secret"`
	Issuer            string `yaml:"issuer"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// RedisConfig is optional; an empty Addr disables rate limiting.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type RateLimitConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Capacity       int           `yaml:"capacity"`
	RefillTokens   int           `yaml:"refill_tokens"`
	RefillInterval time.Duration `yaml:"refill_interval"`
	TTL            time.Duration `yaml:"ttl"`
	Prefix         string        `yaml:"prefix"`
}

// RabbitMQConfig is optional; an empty URL turns event publishing into a no-op.
type RabbitMQConfig struct {
	URL   string `yaml:"url"`
	Queue string `yaml:"queue"`
}

// SendGridConfig is optional; without an API key emails are only logged.
type SendGridConfig struct {
	APIKey           string `yaml:"api_key"`
	FromEmail        string `yaml:"from_email"`
	FromName         string `yaml:"from_name"`
	FrontDeskEmail   string `yaml:"front_desk_email"`
	BillingDeskEmail string `yaml:"billing_desk_email"`
}

// SchedulerConfig contains cron schedule settings (six fields, seconds first).
type SchedulerConfig struct {
	DailyArrivalsDigest    string `yaml:"daily_arrivals_digest"`
	PendingBillingReminder string `yaml:"pending_billing_reminder"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// ClockConfig sets the time zone that defines "today" for dashboards and jobs.
type ClockConfig struct {
	TimeZone string `yaml:"time_zone"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates.
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

func (c *Config) overrideWithEnv() {
	// Database
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Database, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSL_MODE")

	// Server
	setString(&c.Server.Host, "SERVER_HOST")
	setInt(&c.Server.Port, "SERVER_PORT")

	setString(&c.JWT.Secret, "JWT_SECRET")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&c.SendGrid.APIKey, "SENDGRID_API_KEY")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Clock.TimeZone, "CLOCK_TIME_ZONE")
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}

	if err := c.Database.validate(); err != nil {
		return err
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 480 // one front desk shift
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "clubstay"
	}

	seen := make(map[string]bool)
	for i := range c.Staff {
		s := &c.Staff[i]
		if s.ID == "" || s.Name == "" || s.PasswordHash == "" {
			return fmt.Errorf("staff entry %d requires id, name and password_hash", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate staff id %q", s.ID)
		}
		seen[s.ID] = true
		if len(s.Roles) == 0 {
			s.Roles = []string{domain.RoleStaff}
		}
	}

	if c.RateLimit.Capacity < 1 {
		c.RateLimit.Capacity = 60
	}
	if c.RateLimit.RefillTokens < 1 {
		c.RateLimit.RefillTokens = 1
	}
	if c.RateLimit.RefillInterval <= 0 {
		c.RateLimit.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RateLimit.RefillInterval; c.RateLimit.TTL < minTTL {
		c.RateLimit.TTL = minTTL
	}
	if c.RateLimit.Prefix == "" {
		c.RateLimit.Prefix = "rl"
	}

	if c.RabbitMQ.Queue == "" {
		c.RabbitMQ.Queue = "reservations.events"
	}

	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "Club Reservations"
	}

	if c.Scheduler.DailyArrivalsDigest == "" {
		c.Scheduler.DailyArrivalsDigest = "0 0 6 * * *" // 6 AM local
	}
	if c.Scheduler.PendingBillingReminder == "" {
		c.Scheduler.PendingBillingReminder = "0 0 18 * * *" // 6 PM local
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Clock.TimeZone == "" {
		c.Clock.TimeZone = "America/El_Salvador"
	}
	if _, err := time.LoadLocation(c.Clock.TimeZone); err != nil {
		return fmt.Errorf("invalid clock time zone %q: %w", c.Clock.TimeZone, err)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	d.Driver = strings.ToLower(d.Driver)
	switch d.Driver {
	case "":
		d.Driver = DriverMemory
		return nil
	case DriverMemory:
		return nil
	case DriverPostgres:
		if d.Port == 0 {
			d.Port = 5432
		}
		if d.SSLMode == "" {
			d.SSLMode = "disable"
		}
	case DriverMySQL:
		if d.Port == 0 {
			d.Port = 3306
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", d.Driver)
	}

	if d.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if d.User == "" {
		return fmt.Errorf("database user is required")
	}
	if d.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if d.MaxOpenConns <= 0 {
		d.MaxOpenConns = 25
	}
	if d.MaxIdleConns <= 0 {
		d.MaxIdleConns = d.MaxOpenConns
	}
	if d.ConnMaxLifetime <= 0 {
		d.ConnMaxLifetime = 30 * time.Minute
	}
	return nil
}

// DSN returns the driver specific connection string.
func (d DatabaseConfig) DSN() (string, error) {
	addr := fmt.Sprintf("%s:%d", d.Host, d.Port)
	switch d.Driver {
	case "postgres":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     addr,
			Path:     "/" + d.Database,
			RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
		}
		return u.String(), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = addr
		mc.DBName = d.Database
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN(), nil
	}
	return "", fmt.Errorf("driver %q has no DSN", d.Driver)
}

// Location returns the configured time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Clock.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
