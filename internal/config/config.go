package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server ServerConfig
	App    AppConfig
	Feed   FeedConfig
	Sync   SyncConfig
	Store  StoreConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"armory-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// FeedConfig holds distributor FTP feed settings.
type FeedConfig struct {
	Host     string `envconfig:"FEED_FTP_HOST" default:""`
	Port     int    `envconfig:"FEED_FTP_PORT" default:"21"`
	User     string `envconfig:"FEED_FTP_USER" default:""`
	Password string `envconfig:"FEED_FTP_PASSWORD" default:""`
	Secure   bool   `envconfig:"FEED_FTP_SECURE" default:"false"`

	// InventoryPath is the exact remote file path. Required for account
	// tiers without list permission; when empty the client attempts
	// directory discovery instead.
	InventoryPath string `envconfig:"FEED_INVENTORY_PATH" default:""`

	// Encoding of the feed file: "utf-8", "latin1" or "windows-1252".
	Encoding string `envconfig:"FEED_ENCODING" default:"utf-8"`

	Delimiter  string `envconfig:"FEED_DELIMITER" default:";"`
	MaxRecords int    `envconfig:"FEED_MAX_RECORDS" default:"0"` // 0 = no cap
}

// SyncConfig holds sync-run settings.
type SyncConfig struct {
	// Budget is the wall-clock ceiling for one full sync run. Mirrors the
	// serverless execution limit of the hosting environment.
	Budget time.Duration `envconfig:"SYNC_BUDGET" default:"60s"`

	// DebugExposeFileList includes the remote directory listing in failure
	// reports. Off by default: file names are not sensitive, but there is no
	// reason to leak them outside troubleshooting sessions.
	DebugExposeFileList bool `envconfig:"SYNC_DEBUG_EXPOSE_FILE_LIST" default:"false"`
}

// StoreConfig holds inventory storage settings.
type StoreConfig struct {
	// Type selects the backend: redis, postgres, mysql, or sqlite.
	Type      string `envconfig:"STORE_TYPE" default:"sqlite"`
	BatchSize int    `envconfig:"STORE_BATCH_SIZE" default:"0"` // 0 = backend default

	// SQLite settings
	Path string `envconfig:"STORE_SQLITE_PATH" default:"./data/inventory.db"`

	// PostgreSQL settings
	Host     string `envconfig:"STORE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_DB_PORT" default:"5432"`
	Name     string `envconfig:"STORE_DB_NAME" default:"armory"`
	User     string `envconfig:"STORE_DB_USER" default:"postgres"`
	Password string `envconfig:"STORE_DB_PASS" default:""`
	SSLMode  string `envconfig:"STORE_DB_SSLMODE" default:"disable"`

	// MySQL settings
	MySQLHost     string `envconfig:"STORE_MYSQL_HOST" default:"localhost"`
	MySQLPort     int    `envconfig:"STORE_MYSQL_PORT" default:"3306"`
	MySQLName     string `envconfig:"STORE_MYSQL_NAME" default:"armory"`
	MySQLUser     string `envconfig:"STORE_MYSQL_USER" default:"root"`
	MySQLPassword string `envconfig:"STORE_MYSQL_PASS" default:""`

	// Redis settings
	RedisHost     string        `envconfig:"STORE_REDIS_HOST" default:"localhost"`
	RedisPort     int           `envconfig:"STORE_REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"STORE_REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"STORE_REDIS_DB" default:"0"`
	RedisTTL      time.Duration `envconfig:"STORE_REDIS_TTL" default:"3h"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Address returns the FTP server address in host:port format.
func (f *FeedConfig) Address() string {
	return fmt.Sprintf("%s:%d", f.Host, f.Port)
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *StoreConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.User, s.Password, s.Host, s.Port, s.Name, s.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (s *StoreConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.MySQLUser, s.MySQLPassword, s.MySQLHost, s.MySQLPort, s.MySQLName)
}

// RedisAddress returns the Redis address in host:port format.
func (s *StoreConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", s.RedisHost, s.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
