package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Simulator  SimulatorConfig  `yaml:"simulator"`
	AI         AIConfig         `yaml:"ai"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Client     ClientConfig     `yaml:"-"` // Populated from the environment
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
	StreamBuffer    int           `yaml:"stream_buffer"`
}

// SimulatorConfig controls the mock real-time feed.
type SimulatorConfig struct {
	IntervalMS int           `yaml:"interval_ms"`
	Interval   time.Duration `yaml:"-"`
	Seed       uint64        `yaml:"seed"` // 0 picks a random seed
}

// AIConfig holds the hosted model settings.
type AIConfig struct {
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	Temperature    *float32      `yaml:"temperature"`
	TimeoutSeconds int           `yaml:"timeout_seconds"` // 0 disables the per-call timeout
	Timeout        time.Duration `yaml:"-"`
	Timezone       string        `yaml:"timezone"` // Used to render log times in prompts
}

// DatabaseConfig holds the archive database configuration. An empty DSN disables the archive.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are set.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// ClientConfig holds the external-service credentials handed to the browser.
// Unset values keep a placeholder so the front end can detect them.
type ClientConfig struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	StorageBucket     string `json:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId"`
	AppID             string `json:"appId"`
	MeasurementID     string `json:"measurementId"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	applyEnv(&cfg, os.Getenv)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyEnv(&cfg, os.Getenv)
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cfg.Server.StreamBuffer <= 0 {
		cfg.Server.StreamBuffer = 8
	}

	if cfg.Simulator.IntervalMS <= 0 {
		cfg.Simulator.IntervalMS = 5000
	}
	cfg.Simulator.Interval = time.Duration(cfg.Simulator.IntervalMS) * time.Millisecond

	if cfg.AI.TimeoutSeconds < 0 {
		cfg.AI.TimeoutSeconds = 0
	}
	cfg.AI.Timeout = time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	if cfg.AI.Timezone == "" {
		cfg.AI.Timezone = "Local"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = cfg.WorkerPool.Size
	}
}

// clientEnv maps each client credential to its environment variable and placeholder.
var clientEnv = []struct {
	name        string
	placeholder string
	field       func(*ClientConfig) *string
}{
	{"NOVA_FIREBASE_API_KEY", "YOUR_API_KEY", func(c *ClientConfig) *string { return &c.APIKey }},
	{"NOVA_FIREBASE_AUTH_DOMAIN", "YOUR_AUTH_DOMAIN", func(c *ClientConfig) *string { return &c.AuthDomain }},
	{"NOVA_FIREBASE_PROJECT_ID", "YOUR_PROJECT_ID", func(c *ClientConfig) *string { return &c.ProjectID }},
	{"NOVA_FIREBASE_STORAGE_BUCKET", "YOUR_STORAGE_BUCKET", func(c *ClientConfig) *string { return &c.StorageBucket }},
	{"NOVA_FIREBASE_MESSAGING_SENDER_ID", "YOUR_MESSAGING_SENDER_ID", func(c *ClientConfig) *string { return &c.MessagingSenderID }},
	{"NOVA_FIREBASE_APP_ID", "YOUR_APP_ID", func(c *ClientConfig) *string { return &c.AppID }},
	{"NOVA_FIREBASE_MEASUREMENT_ID", "YOUR_MEASUREMENT_ID", func(c *ClientConfig) *string { return &c.MeasurementID }},
}

func applyEnv(cfg *Config, getenv func(string) string) {
	for _, e := range clientEnv {
		v := getenv(e.name)
		if v == "" {
			v = e.placeholder
		}
		*e.field(&cfg.Client) = v
	}

	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v := getenv(name); v != "" {
			cfg.AI.APIKey = v
			break
		}
	}
	if v := getenv("NOVA_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
}

// Location resolves the prompt timezone.
func (c AIConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
