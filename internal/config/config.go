package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort     = 5000
	defaultEnv      = "development"
	defaultDataDir  = "data"
	defaultLogsDir  = "logs"
	defaultAdmin    = "admin"
	defaultAdminPwd = "admin123"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int          `yaml:"port"`
	Env            string       `yaml:"env"` // "development" | "production"
	JWTSecret      string       `yaml:"jwt_secret"`
	RedisURL       string       `yaml:"redis_url"` // empty disables Redis features
	Paths          PathsConfig  `yaml:"paths"`
	Admin          AdminConfig  `yaml:"admin"`
	AllowedOrigins []string     `yaml:"allowed_origins"`
}

// PathsConfig locates the document, the ban file and the log directory.
type PathsConfig struct {
	Data string `yaml:"data"`
	Logs string `yaml:"logs"`
}

// AdminConfig is the bootstrap super-admin account, created on first start
// when the document has no users.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type rawAppConfig struct {
	Port               int            `yaml:"port"`
	Env                string         `yaml:"env"`
	NodeEnv            string         `yaml:"node_env"`
	JWTSecret          string         `yaml:"jwt_secret"`
	JWTSecretLegacy    string         `yaml:"jwtsecret"`
	RedisURL           string         `yaml:"redis_url"`
	Paths              rawPathsConfig `yaml:"paths"`
	DataDir            string         `yaml:"data_dir"`
	LogDir             string         `yaml:"log_dir"`
	LogsDir            string         `yaml:"logs_dir"`
	Admin              AdminConfig    `yaml:"admin"`
	AllowedOrigins     []string       `yaml:"allowed_origins"`
	CORSAllowedOrigins []string       `yaml:"cors_allowed_origins"`
}

type rawPathsConfig struct {
	Data string `yaml:"data"`
	Logs string `yaml:"logs"`
}

// Load reads the YAML config at path. A missing file is not an error: the
// defaults describe a working local deployment.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyRawAppConfig(&cfg, raw)
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Paths: PathsConfig{
			Data: defaultDataDir,
			Logs: defaultLogsDir,
		},
		Admin: AdminConfig{
			Username: defaultAdmin,
			Password: defaultAdminPwd,
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
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.JWTSecretLegacy); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.RedisURL = v
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
	if v := strings.TrimSpace(raw.LogsDir); v != "" {
		cfg.Paths.Logs = v
	}

	if v := strings.TrimSpace(raw.Admin.Username); v != "" {
		cfg.Admin.Username = v
	}
	if v := strings.TrimSpace(raw.Admin.Password); v != "" {
		cfg.Admin.Password = v
	}

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSAllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSAllowedOrigins)
	}

	cfg.Env = normalizeEnv(cfg.Env)
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

// IsDev reports whether the server runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// DatabasePath is the location of the main document.
func (c *AppConfig) DatabasePath() string {
	return c.Paths.Data + "/database.json"
}

// BansPath is the location of the ban registry file.
func (c *AppConfig) BansPath() string {
	return c.Paths.Data + "/bans.json"
}

// ActivityLogPath is the location of the append-only audit log.
func (c *AppConfig) ActivityLogPath() string {
	return c.Paths.Logs + "/activity.log"
}
