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
	Server  ServerConfig
	App     AppConfig
	Store   StoreConfig
	UsersDB UsersDBConfig
	Session SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"sklad-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// StoreConfig holds inventory/history database settings.
type StoreConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"sqlite"` // sqlite or postgres
	Path string `envconfig:"STORE_PATH" default:"./data/sklad.db"`
	// PostgreSQL settings
	Host     string `envconfig:"STORE_PG_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_PG_PORT" default:"5432"`
	Name     string `envconfig:"STORE_PG_NAME" default:"sklad"`
	User     string `envconfig:"STORE_PG_USER" default:"postgres"`
	Password string `envconfig:"STORE_PG_PASS" default:""`
	SSLMode  string `envconfig:"STORE_PG_SSLMODE" default:"disable"`
}

// UsersDBConfig holds credential store settings. The default keeps users in
// the same SQLite file as the inventory; MySQL is the split deployment where
// accounts live in a shared database.
type UsersDBConfig struct {
	Type     string `envconfig:"USERS_DB_TYPE" default:"sqlite"` // sqlite or mysql
	Host     string `envconfig:"USERS_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"USERS_DB_PORT" default:"3306"`
	Name     string `envconfig:"USERS_DB_NAME" default:"sklad"`
	User     string `envconfig:"USERS_DB_USER" default:"root"`
	Password string `envconfig:"USERS_DB_PASS" default:""`
}

// SessionConfig holds session token store settings.
type SessionConfig struct {
	Store string        `envconfig:"SESSION_STORE" default:"memory"` // memory or redis
	TTL   time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *StoreConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (u *UsersDBConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		u.User, u.Password, u.Host, u.Port, u.Name)
}

// RedisAddress returns the Redis address in host:port format.
func (s *SessionConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", s.RedisHost, s.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
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
