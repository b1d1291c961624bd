package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORAGE_DRIVER
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Password PasswordConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins
}

type DatabaseConfig struct {
	Driver         string // postgres or memory
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	ChannelBinding string // "require" for Neon DB, empty for local
	MaxOpenConns   int
	MaxIdleConns   int
	AutoMigrate    bool
}

// AuthConfig is read once at startup. The signing key and algorithm are not hot-reloadable.
type AuthConfig struct {
	// HS256, HS384, HS512 (JWT, key >= 32 bytes) or v4.local (PASETO, key == 32 bytes)
	TokenAlgorithm       string
	TokenSigningKey      []byte
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// Bounds for the argon2id cost parameters
const (
	MaxArgon2Time     = 64
	MaxArgon2MemoryKB = 1024 * 1024 // 1 GiB
	MaxArgon2Threads  = 255
)

// PasswordConfig holds argon2id cost parameters.
// Values are kept as read and range checked by Validate before narrowing.
type PasswordConfig struct {
	Time     int
	MemoryKB int
	Threads  int
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:         getEnv("STORAGE_DRIVER", StoragePostgres),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "insured"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			ChannelBinding: getEnv("DB_CHANNEL_BINDING", ""),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			AutoMigrate:    getBoolEnv("DB_AUTO_MIGRATE", false),
		},
		Auth: AuthConfig{
			TokenAlgorithm:       getEnv("TOKEN_ALGORITHM", "HS256"),
			TokenSigningKey:      []byte(getEnv("TOKEN_SIGNING_KEY", "")),
			AccessTokenDuration:  getDurationEnv("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getDurationEnv("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
		},
		Password: PasswordConfig{
			Time:     getIntEnv("ARGON2_TIME", 3),
			MemoryKB: getIntEnv("ARGON2_MEMORY_KB", 64*1024),
			Threads:  getIntEnv("ARGON2_THREADS", 4),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Database.Driver))
	}

	keyLen := len(c.Auth.TokenSigningKey)
	switch c.Auth.TokenAlgorithm {
	case "HS256", "HS384", "HS512":
		if keyLen < 32 {
			errs = append(errs, fmt.Errorf("TOKEN_SIGNING_KEY must be at least 32 bytes for %s, got %d", c.Auth.TokenAlgorithm, keyLen))
		}
	case "v4.local":
		// PASETO symmetric key (must be 32 bytes for v4.local)
		if keyLen != 32 {
			errs = append(errs, fmt.Errorf("TOKEN_SIGNING_KEY must be exactly 32 bytes for v4.local, got %d", keyLen))
		}
	default:
		errs = append(errs, fmt.Errorf("TOKEN_ALGORITHM %q is not supported", c.Auth.TokenAlgorithm))
	}

	if c.Auth.AccessTokenDuration <= 0 || c.Auth.RefreshTokenDuration <= 0 {
		errs = append(errs, errors.New("token durations must be positive"))
	}
	if c.Auth.RefreshTokenDuration < c.Auth.AccessTokenDuration {
		errs = append(errs, errors.New("REFRESH_TOKEN_DURATION must not be shorter than ACCESS_TOKEN_DURATION"))
	}

	errs = append(errs, c.Password.validate()...)

	return errors.Join(errs...)
}

func (p PasswordConfig) validate() []error {
	var errs []error

	if p.Time < 1 || p.Time > MaxArgon2Time {
		errs = append(errs, fmt.Errorf("ARGON2_TIME must be between 1 and %d, got %d", MaxArgon2Time, p.Time))
	}
	if p.Threads < 1 || p.Threads > MaxArgon2Threads {
		errs = append(errs, fmt.Errorf("ARGON2_THREADS must be between 1 and %d, got %d", MaxArgon2Threads, p.Threads))
		return errs
	}
	// argon2 needs at least 8 KiB per lane
	if p.MemoryKB < 8*p.Threads || p.MemoryKB > MaxArgon2MemoryKB {
		errs = append(errs, fmt.Errorf("ARGON2_MEMORY_KB must be between %d and %d, got %d", 8*p.Threads, MaxArgon2MemoryKB, p.MemoryKB))
	}

	return errs
}

func (c *DatabaseConfig) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// Add channel_binding if configured (required for Neon DB)
	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// getDurationEnv reads a number of seconds
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
