package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Upstream struct {
		IdentityURL string        `yaml:"identity_url"`
		BalanceURL  string        `yaml:"balance_url"`
		HistoryURL  string        `yaml:"history_url"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"upstream"`
	Agents AgentsConfig `yaml:"agents"`
	Pipeline struct {
		Budget time.Duration `yaml:"budget"`
	} `yaml:"pipeline"`
	Cache struct {
		Backend string        `yaml:"backend"` // memory or redis
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// AgentsConfig holds the agent endpoints plus the retry and circuit breaker
// policy applied to every agent call.
type AgentsConfig struct {
	RiskURL       string `yaml:"risk_url"`
	TermsURL      string `yaml:"terms_url"`
	PerksURL      string `yaml:"perks_url"`
	ChallengerURL string `yaml:"challenger_url"`
	ArbiterURL    string `yaml:"arbiter_url"`
	PolicyURL     string `yaml:"policy_url"`

	AttemptTimeout   time.Duration `yaml:"attempt_timeout"`
	MaxAttempts      int           `yaml:"max_attempts"`
	BackoffBase      time.Duration `yaml:"backoff_base"`
	BackoffFactor    float64       `yaml:"backoff_factor"`
	BreakerThreshold int           `yaml:"breaker_threshold"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		if host, port, ok := splitAddr(v); ok {
			c.Cache.Redis.Host = host
			c.Cache.Redis.Port = port
		}
	}
	for env, dst := range map[string]*string{
		"RISK_AGENT_URL":       &c.Agents.RiskURL,
		"TERMS_AGENT_URL":      &c.Agents.TermsURL,
		"PERKS_AGENT_URL":      &c.Agents.PerksURL,
		"CHALLENGER_AGENT_URL": &c.Agents.ChallengerURL,
		"ARBITER_AGENT_URL":    &c.Agents.ArbiterURL,
		"POLICY_AGENT_URL":     &c.Agents.PolicyURL,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8083
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = 5 * time.Second
	}
	if c.Agents.AttemptTimeout == 0 {
		c.Agents.AttemptTimeout = 4 * time.Second
	}
	if c.Agents.MaxAttempts == 0 {
		c.Agents.MaxAttempts = 3
	}
	if c.Agents.BackoffBase == 0 {
		c.Agents.BackoffBase = 200 * time.Millisecond
	}
	if c.Agents.BackoffFactor == 0 {
		c.Agents.BackoffFactor = 2
	}
	if c.Agents.BreakerThreshold == 0 {
		c.Agents.BreakerThreshold = 3
	}
	if c.Agents.BreakerCooldown == 0 {
		c.Agents.BreakerCooldown = 30 * time.Second
	}
	if c.Pipeline.Budget == 0 {
		c.Pipeline.Budget = 10 * time.Second
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "preapprove"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Agents.MaxAttempts < 1 {
		return fmt.Errorf("agents.max_attempts must be at least 1")
	}
	// Per-call timeout must stay shorter than the overall request budget so
	// at least one full retry cycle fits within it.
	if c.Agents.AttemptTimeout >= c.Pipeline.Budget {
		return fmt.Errorf("agents.attempt_timeout (%s) must be shorter than pipeline.budget (%s)",
			c.Agents.AttemptTimeout, c.Pipeline.Budget)
	}
	for name, url := range map[string]string{
		"agents.risk_url":       c.Agents.RiskURL,
		"agents.terms_url":      c.Agents.TermsURL,
		"agents.perks_url":      c.Agents.PerksURL,
		"agents.challenger_url": c.Agents.ChallengerURL,
		"agents.arbiter_url":    c.Agents.ArbiterURL,
		"agents.policy_url":     c.Agents.PolicyURL,
	} {
		if url == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if c.Upstream.IdentityURL == "" || c.Upstream.BalanceURL == "" || c.Upstream.HistoryURL == "" {
		return fmt.Errorf("upstream identity_url, balance_url, and history_url are required")
	}
	return nil
}

func splitAddr(addr string) (string, int, bool) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			port, err := strconv.Atoi(addr[i+1:])
			if err != nil {
				return "", 0, false
			}
			return addr[:i], port, true
		}
	}
	return "", 0, false
}
