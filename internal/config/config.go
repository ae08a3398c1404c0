package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Host string
	Port int

	Debug string

	APIBaseURL string
	APIToken   string
	TimeoutMs  int

	FormCookiePrefix  string
	FormRetentionDays int
	FormCookieSecure  bool
	FormSizeWarnBytes int
}

var (
	cfg  *Config
	once sync.Once
)

const (
	DefaultFormCookiePrefix  = "inspection_form"
	DefaultFormRetentionDays = 7
	DefaultFormSizeWarnBytes = 3500
)

func Load() *Config {
	once.Do(func() {
		loadDotEnv()

		cfg = &Config{
			Host:              getEnv("HOST", "0.0.0.0"),
			Port:              getEnvInt("PORT", 8080),
			Debug:             getEnv("DEBUG", "off"),
			APIBaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000/api"), "/"),
			APIToken:          getEnv("API_TOKEN", ""),
			TimeoutMs:         getEnvInt("TIMEOUT", 30000),
			FormCookiePrefix:  getEnv("FORM_COOKIE_PREFIX", DefaultFormCookiePrefix),
			FormRetentionDays: getEnvInt("FORM_RETENTION_DAYS", DefaultFormRetentionDays),
			FormCookieSecure:  getEnvBool("FORM_COOKIE_SECURE", true),
			FormSizeWarnBytes: getEnvInt("FORM_SIZE_WARN_BYTES", DefaultFormSizeWarnBytes),
		}

		if cfg.FormRetentionDays <= 0 {
			cfg.FormRetentionDays = DefaultFormRetentionDays
		}

		for i, arg := range os.Args[1:] {
			if arg == "-debug" && i+1 < len(os.Args[1:]) {
				cfg.Debug = os.Args[i+2]
			}
		}
	})

	return cfg
}

func Get() *Config {
	if cfg == nil {
		return Load()
	}
	return cfg
}

// FormRetention is the window after which a saved form snapshot is discarded.
func (c *Config) FormRetention() time.Duration {
	return time.Duration(c.FormRetentionDays) * 24 * time.Hour
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
