package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig is the process configuration read from the environment.
type AppConfig struct {
	LLM       LLMConfig
	Server    ServerConfig
	Survey    SurveyConfig
	RateLimit RateLimitConfig
	TurnGuard TurnGuardConfig
	Log       LogConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type SurveyConfig struct {
	Path        string // HTTP route of the survey agent, always with a leading slash
	CatalogFile string // optional YAML catalog; empty means the built-in catalog
}

type RateLimitConfig struct {
	Requests int // per window and client IP; 0 disables limiting
	Window   time.Duration
}

type TurnGuardConfig struct {
	Mode          string // "off", "memory" or "redis"
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type LogConfig struct {
	Level   string
	Service string
}

// Turn guard modes.
const (
	TurnGuardOff    = "off"
	TurnGuardMemory = "memory"
	TurnGuardRedis  = "redis"
)

// LoadAppConfig reads the configuration from environment variables, applying defaults.
func LoadAppConfig() *AppConfig {
	return &AppConfig{
		LLM: LoadLLMConfig(),
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 90*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Survey: SurveyConfig{
			Path:        ConfiguredPath("AGENT_SURVEY_PATH", "/survey", "SURVEY_PATH"),
			CatalogFile: getEnv("SURVEY_CATALOG_FILE", ""),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 60),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		TurnGuard: TurnGuardConfig{
			Mode:          strings.ToLower(getEnv("TURN_GUARD", TurnGuardOff)),
			TTL:           getEnvAsDuration("TURN_GUARD_TTL", 15*time.Minute),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Service: getEnv("LOG_SERVICE", "survey-agent"),
		},
	}
}

// Validate checks settings that have no safe default.
func (c *AppConfig) Validate() error {
	if err := c.LLM.ValidateConfig(); err != nil {
		return err
	}
	switch c.TurnGuard.Mode {
	case TurnGuardOff, TurnGuardMemory, TurnGuardRedis:
	default:
		return configError("TURN_GUARD must be one of off, memory, redis")
	}
	if c.TurnGuard.Mode == TurnGuardRedis && c.TurnGuard.RedisAddr == "" {
		return configError("REDIS_ADDR is required when TURN_GUARD=redis")
	}
	if c.RateLimit.Requests < 0 {
		return configError("RATE_LIMIT_REQUESTS must not be negative")
	}
	return nil
}

// ConfiguredPath reads an HTTP route from envKey, then legacyEnvKey, then def, and makes sure
// it starts with a slash.
func ConfiguredPath(envKey, def, legacyEnvKey string) string {
	path := strings.TrimSpace(os.Getenv(envKey))
	if path == "" && legacyEnvKey != "" {
		path = strings.TrimSpace(os.Getenv(legacyEnvKey))
	}
	if path == "" {
		path = strings.TrimSpace(def)
	}
	if path == "" {
		return def
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
