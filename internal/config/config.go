package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr  string      `yaml:"listen_addr"`
	ProfilePath string      `yaml:"profile_path"`
	Audit       AuditConfig `yaml:"audit"`
}

type AuditConfig struct {
	// Stdout defaults to true when the key is absent.
	Stdout  *bool         `yaml:"stdout"`
	File    string        `yaml:"file"`
	Webhook WebhookConfig `yaml:"webhook"`
	Stream  StreamConfig  `yaml:"stream"`
	DB      DBConfig      `yaml:"db"`
}

type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Secret  string        `yaml:"secret"`
	Timeout time.Duration `yaml:"timeout"`
}

type StreamConfig struct {
	Enabled bool `yaml:"enabled"`
	Buffer  int  `yaml:"buffer"`
	// AllowedOrigins lists extra browser origins; same-origin is always allowed.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// StdoutEnabled reports whether entries should be written to stdout.
func (a AuditConfig) StdoutEnabled() bool {
	return a.Stdout == nil || *a.Stdout
}

func Load(path string) (Config, error) {
	// #nosec G304 -- path is operator-provided config path.
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	expanded := os.ExpandEnv(string(raw))
	expanded = strings.ReplaceAll(expanded, "\r\n", "\n")

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Audit.Webhook.Timeout < 0 {
		return fmt.Errorf("audit.webhook.timeout must not be negative")
	}
	if c.Audit.Webhook.Secret != "" && c.Audit.Webhook.URL == "" {
		return fmt.Errorf("audit.webhook.url is required when audit.webhook.secret is set")
	}

	if c.Audit.Stream.Buffer < 0 {
		return fmt.Errorf("audit.stream.buffer must not be negative")
	}

	if c.Audit.DB.Driver != "" && c.Audit.DB.DSN == "" {
		return fmt.Errorf("audit.db.dsn is required when audit.db.driver is set")
	}
	if c.Audit.DB.DSN != "" && c.Audit.DB.Driver == "" {
		return fmt.Errorf("audit.db.driver is required when audit.db.dsn is set")
	}
	switch strings.ToLower(c.Audit.DB.Driver) {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("audit.db.driver %q is not supported", c.Audit.DB.Driver)
	}

	return nil
}
