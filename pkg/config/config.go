package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Static    StaticConfig
	Debug     bool
	Log       LogConfig
	RateLimit RateLimitConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	Name            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type StaticConfig struct {
	Dir         string
	ServeAssets bool
}

type LogConfig struct {
	Level  string
	Format string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
	// TrustProxy: брать IP клиента из X-Forwarded-For / X-Real-IP
	TrustProxy bool
}

type SecurityConfig struct {
	AllowedOrigins []string
}

// Load читает конфигурацию из окружения и необязательного .env файла.
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	debug, err := envBool("DEBUG", false)
	if err != nil {
		return nil, err
	}
	serveAssets, err := envBool("STATIC_SERVE_ASSETS", false)
	if err != nil {
		return nil, err
	}
	rateLimitEnabled, err := envBool("RATE_LIMIT_ENABLED", false)
	if err != nil {
		return nil, err
	}

	trustProxy, err := envBool("RATE_LIMIT_TRUST_PROXY", false)
	if err != nil {
		return nil, err
	}

	rps, err := envFloat("RATE_LIMIT_RPS", 50)
	if err != nil {
		return nil, err
	}
	burst, err := envInt("RATE_LIMIT_BURST", 100)
	if err != nil {
		return nil, err
	}

	readTimeout, err := envDuration("SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := envDuration("SERVER_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	idleTimeout, err := envDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	defaultLevel := "info"
	if debug {
		defaultLevel = "debug"
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "127.0.0.1"),
			Port:            getEnv("SERVER_PORT", "5000"),
			Name:            getEnv("SERVER_NAME", "Flask"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			IdleTimeout:     idleTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Static: StaticConfig{
			Dir:         getEnv("STATIC_DIR", "../frontend/build"),
			ServeAssets: serveAssets,
		},
		Debug: debug,
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", defaultLevel)),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
		RateLimit: RateLimitConfig{
			Enabled:    rateLimitEnabled,
			RPS:        rps,
			Burst:      burst,
			TrustProxy: trustProxy,
		},
		Security: SecurityConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5000,http://127.0.0.1:5000")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения, которые нельзя исправить дефолтами.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("SERVER_PORT must not be empty")
	}
	if _, err := strconv.ParseUint(c.Server.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.Server.Port, err)
	}
	if strings.TrimSpace(c.Static.Dir) == "" {
		return errors.New("STATIC_DIR must not be empty")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return errors.New("RATE_LIMIT_RPS must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			return errors.New("RATE_LIMIT_BURST must be positive")
		}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Addr возвращает адрес для net.Listen.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// GreetingMessage is the constant payload of /api/hello.
func (c *Config) GreetingMessage() string {
	return "Hello from " + c.Server.Name + "!"
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}

func envBool(key string, fallback bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func envInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
