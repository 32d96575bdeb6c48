package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort         = 8080
	defaultEnv          = "development"
	defaultRedisURL     = "redis://localhost:6379/0"
	defaultExpiryHours  = 24
	defaultFromName     = "Kuzamo Team"
	defaultFromEmail    = "onboarding@resend.dev"
	defaultReplyTo      = "support@kuzamo.com"
	defaultDoHEndpoint  = "https://dns.google/resolve"
	defaultStaticDir    = "web"
	defaultJWTSecretDev = "kuzamo-secret-change-me"
)

// AppConfig holds runtime startup configuration loaded from YAML,
// with KUZAMO_* environment variables taking precedence.
type AppConfig struct {
	Port           int        `yaml:"port"`
	Env            string     `yaml:"env"` // "development" | "production"
	RedisURL       string     `yaml:"redis_url"`
	JWTSecret      string     `yaml:"jwt_secret"`
	BaseURL        string     `yaml:"base_url"`
	ExpiryHours    int        `yaml:"confirmation_expiry_hours"`
	AllowedOrigins []string   `yaml:"allowed_origins"`
	DoHEndpoint    string     `yaml:"doh_endpoint"`
	StaticDir      string     `yaml:"static_dir"`
	Mail           MailConfig `yaml:"mail"`
}

// MailConfig holds the transactional-email provider settings.
type MailConfig struct {
	ResendKey string `yaml:"resend_key"`
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`
	ReplyTo   string `yaml:"reply_to"`
}

// Load reads the YAML config at path, applies environment overrides and
// fills defaults. A missing file is not an error: env-only deployments
// are supported.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := envStr("KUZAMO_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := envStr("KUZAMO_ENV"); v != "" {
		cfg.Env = v
	}
	if v := envStr("KUZAMO_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := envStr("KUZAMO_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := envStr("KUZAMO_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := envStr("KUZAMO_CONFIRMATION_EXPIRY_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			cfg.ExpiryHours = h
		}
	}
	if v := envStr("RESEND_API_KEY"); v != "" {
		cfg.Mail.ResendKey = v
	}
	if v := envStr("KUZAMO_FROM_NAME"); v != "" {
		cfg.Mail.FromName = v
	}
	if v := envStr("KUZAMO_FROM_EMAIL"); v != "" {
		cfg.Mail.FromEmail = v
	}
	if v := envStr("KUZAMO_REPLY_TO"); v != "" {
		cfg.Mail.ReplyTo = v
	}
	if v := envStr("KUZAMO_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitCSV(v)
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.ExpiryHours <= 0 {
		cfg.ExpiryHours = defaultExpiryHours
	}
	if cfg.DoHEndpoint == "" {
		cfg.DoHEndpoint = defaultDoHEndpoint
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = defaultStaticDir
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = defaultFromName
	}
	if cfg.Mail.FromEmail == "" {
		cfg.Mail.FromEmail = defaultFromEmail
	}
	if cfg.Mail.ReplyTo == "" {
		cfg.Mail.ReplyTo = defaultReplyTo
	}
	if cfg.JWTSecret == "" && cfg.IsDev() {
		cfg.JWTSecret = defaultJWTSecretDev
	}
}

func (c *AppConfig) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required in production")
	}
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return !strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

func envStr(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
