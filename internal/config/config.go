package config

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort      = 8130
	defaultEnv       = "development"
	defaultRedisPort = 6379
	defaultRedisDB   = 0
)

// AppConfig holds runtime startup configuration loaded from YAML.
// User-facing settings (API keys, prompts, toggles) live in the settings
// module instead; this file only bootstraps the process.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	RedisURL       string             `yaml:"redis_url"`
	Redis          RedisRuntimeConfig `yaml:"redis"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Paths          RuntimePathsConfig `yaml:"paths"`
}

// RedisRuntimeConfig is the structured alternative to redis_url.
type RedisRuntimeConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RuntimePathsConfig overrides on-disk locations.
type RuntimePathsConfig struct {
	Data string `yaml:"data"`
	Logs string `yaml:"logs"`
}

type rawAppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"`
	RedisURL       string             `yaml:"redis_url"`
	Redis          RedisRuntimeConfig `yaml:"redis"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Paths          RuntimePathsConfig `yaml:"paths"`
	DataDir        string             `yaml:"data_dir"` // legacy alias for paths.data
	LogDir         string             `yaml:"log_dir"`  // legacy alias for paths.logs
}

// Load reads the YAML config at configPath, applies defaults and env
// overrides. A missing file at the default path is not an error; the
// daemon runs on defaults so the extension works out of the box.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		raw := rawAppConfig{}
		if decodeErr := decoder.Decode(&raw); decodeErr != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, decodeErr)
		}
		applyRawAppConfig(&cfg, raw)
	case os.IsNotExist(err) && path == DefaultConfigPath:
		// defaults only
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("invalid redis.port %d, expected 1-65535", cfg.Redis.Port)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		// Redis is opt-in: an empty host keeps the summary cache in
		// process memory, matching a fresh install with no deps.
		Redis: RedisRuntimeConfig{
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Redis.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Redis.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		cfg.Redis.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		cfg.Redis.Password = v
	}
	if raw.Redis.DB != 0 {
		cfg.Redis.DB = raw.Redis.DB
	}
	if len(raw.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = raw.AllowedOrigins
	}
	if v := strings.TrimSpace(raw.Paths.Data); v != "" {
		cfg.Paths.Data = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.Paths.Data = v
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("VIDSUM_PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("VIDSUM_ENV")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("VIDSUM_REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("VIDSUM_DATA_DIR")); v != "" {
		cfg.Paths.Data = v
	}
	if v := strings.TrimSpace(os.Getenv("VIDSUM_LOG_DIR")); v != "" {
		cfg.Paths.Logs = v
	}
}

func normalizeEnv(env string) string {
	e := strings.ToLower(strings.TrimSpace(env))
	switch e {
	case "prod", "production":
		return "production"
	default:
		return "development"
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		out = append(out, o)
	}
	return out
}

// IsDev reports whether the config targets the development environment.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// RedisURLValue returns the effective redis URL, assembled from the
// structured fields when redis_url is not set. Empty means "no redis":
// the cache partition falls back to process memory.
func (c *AppConfig) RedisURLValue() string {
	if url := strings.TrimSpace(c.RedisURL); url != "" {
		return url
	}
	if strings.TrimSpace(c.Redis.Host) == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("redis://")
	if c.Redis.Username != "" || c.Redis.Password != "" {
		b.WriteString(c.Redis.Username)
		if c.Redis.Password != "" {
			b.WriteString(":" + c.Redis.Password)
		}
		b.WriteString("@")
	}
	b.WriteString(net.JoinHostPort(c.Redis.Host, strconv.Itoa(c.Redis.Port)))
	b.WriteString("/" + strconv.Itoa(c.Redis.DB))
	return b.String()
}

// DataDir returns the directory holding persisted settings and prompts.
func (c *AppConfig) DataDir() string {
	if dir := strings.TrimSpace(c.Paths.Data); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".vidsum", "data")
	}
	return filepath.Join(".", "data")
}

// LogDir returns the directory for daily log files.
func (c *AppConfig) LogDir() string {
	if dir := strings.TrimSpace(c.Paths.Logs); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".vidsum", "log")
	}
	return filepath.Join(".", "logs")
}
