package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is the stationd server configuration.
type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,   default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Payment PaymentConfig
	Admin   AdminSeed
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=car_service_station"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// PaymentConfig holds the checkout provider key pair used to sign orders.
type PaymentConfig struct {
	KeyID     string `env:"PAYMENT_KEY_ID,     default=rzp_test_station"`
	KeySecret string `env:"PAYMENT_KEY_SECRET"`
}

// AdminSeed describes the administrator created at startup when missing.
type AdminSeed struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
	Email    string `env:"ADMIN_EMAIL, default=admin@station.local"`
}

// Load reads an optional .env file, then the environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET must be set in production")
		}
		c.JWTSecret = "dev-secret-not-for-production"
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("config: JWT_SECRET must be at least 32 characters in production (got %d)", len(c.JWTSecret))
	}
	if c.Payment.KeySecret == "" {
		if c.IsProduction() {
			return errors.New("config: PAYMENT_KEY_SECRET must be set in production")
		}
		c.Payment.KeySecret = "dev-payment-secret"
	}
	if c.Admin.Username != "" && c.Admin.Password == "" {
		return errors.New("config: ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// StorageKind selects where the client keeps its durable session entry.
type StorageKind string

const (
	StorageFile   StorageKind = "file"
	StorageRedis  StorageKind = "redis"
	StorageMemory StorageKind = "memory"
)

// ClientConfig is the stationctl configuration.
type ClientConfig struct {
	APIURL  string        `env:"STATION_API_URL, default=http://localhost:8080/api"`
	Timeout time.Duration `env:"STATION_TIMEOUT, default=15s"`

	Storage     StorageKind `env:"STATION_STORAGE,      default=file"`
	StorageDir  string      `env:"STATION_STORAGE_DIR"`
	RedisAddr   string      `env:"STATION_REDIS_ADDR,   default=localhost:6379"`
	RedisDB     int         `env:"STATION_REDIS_DB,     default=0"`
	RedisPrefix string      `env:"STATION_REDIS_PREFIX, default=stationctl:"`

	LogLevel  string `env:"LOG_LEVEL,  default=warn"`
	LogPretty bool   `env:"LOG_PRETTY, default=true"`
}

// LoadClient reads an optional .env file, then the environment.
func LoadClient(ctx context.Context) (*ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch cfg.Storage {
	case StorageFile, StorageRedis, StorageMemory:
	default:
		return nil, fmt.Errorf("config: unknown STATION_STORAGE %q", cfg.Storage)
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("config: STATION_TIMEOUT must be positive")
	}
	return &cfg, nil
}
