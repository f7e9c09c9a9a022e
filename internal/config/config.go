// Package config handles configuration loading and validation for the CertSight Agent.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/certsight-app/cs-agent/internal/certinfo"
)

// Config represents the complete agent configuration
type Config struct {
	Agent   AgentConfig    `mapstructure:"agent"`
	Report  ReportConfig   `mapstructure:"report"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
	Targets []TargetConfig `mapstructure:"targets"`
}

// AgentConfig contains agent behavior settings
type AgentConfig struct {
	Name         string        `mapstructure:"name"`
	LogLevel     string        `mapstructure:"log_level"`
	ScanInterval time.Duration `mapstructure:"scan_interval"`
	CheckTimeout time.Duration `mapstructure:"check_timeout"`
	Concurrency  int           `mapstructure:"concurrency"`
	Retries      int           `mapstructure:"retries"`
}

// ReportConfig contains the optional ingest endpoint settings. An empty
// endpoint disables reporting entirely.
type ReportConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Key      string        `mapstructure:"key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MetricsConfig contains the Prometheus exposition settings. An empty
// address disables the metrics listener.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// TargetConfig represents one certificate endpoint to observe. Host is
// the host[:port] form the checker consumes; port defaults to 443.
type TargetConfig struct {
	Host  string   `mapstructure:"host"`
	Notes string   `mapstructure:"notes"`
	Tags  []string `mapstructure:"tags"`
}

// Load reads configuration from viper
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("agent.name", "default-agent")
	v.SetDefault("agent.log_level", "info")
	v.SetDefault("agent.scan_interval", "1m")
	v.SetDefault("agent.check_timeout", "5s")
	v.SetDefault("agent.concurrency", 10)
	v.SetDefault("agent.retries", 0)

	v.SetDefault("report.timeout", "30s")
}

// Enabled reports whether result delivery to an ingest endpoint is
// configured.
func (r *ReportConfig) Enabled() bool {
	return r.Endpoint != ""
}

// Enabled reports whether the metrics listener is configured.
func (m *MetricsConfig) Enabled() bool {
	return m.Addr != ""
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAgent(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.validateReport(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := c.validateTargets(); err != nil {
		return fmt.Errorf("targets: %w", err)
	}
	return nil
}

func (c *Config) validateAgent() error {
	if c.Agent.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Agent.Name) > 100 {
		return fmt.Errorf("name must be at most 100 characters")
	}

	if c.Agent.ScanInterval < 10*time.Second {
		return fmt.Errorf("scan_interval must be at least 10 seconds")
	}
	if c.Agent.CheckTimeout < time.Second {
		return fmt.Errorf("check_timeout must be at least 1 second")
	}
	if c.Agent.Concurrency < 1 || c.Agent.Concurrency > 50 {
		return fmt.Errorf("concurrency must be between 1 and 50")
	}
	if c.Agent.Retries < 0 || c.Agent.Retries > 10 {
		return fmt.Errorf("retries must be between 0 and 10")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Agent.LogLevel] {
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}

	return nil
}

func (c *Config) validateReport() error {
	if !c.Report.Enabled() {
		return nil
	}

	u, err := url.Parse(c.Report.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("endpoint must use http or https scheme")
	}

	if c.Report.Key == "" {
		return fmt.Errorf("key is required when an endpoint is set")
	}
	if !strings.HasPrefix(c.Report.Key, "cs_") {
		return fmt.Errorf("key must start with 'cs_' prefix")
	}

	if c.Report.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second")
	}

	return nil
}

func (c *Config) validateTargets() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}
	if len(c.Targets) > 1000 {
		return fmt.Errorf("maximum 1000 targets allowed")
	}

	seen := make(map[string]bool)
	for i, target := range c.Targets {
		if target.Host == "" {
			return fmt.Errorf("[%d]: host is required", i)
		}
		if _, err := certinfo.ParseTarget(target.Host); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}

		if seen[target.Host] {
			return fmt.Errorf("[%d]: duplicate target '%s'", i, target.Host)
		}
		seen[target.Host] = true

		for j, tag := range target.Tags {
			if len(tag) > 50 {
				return fmt.Errorf("[%d]: tag[%d] must be at most 50 characters", i, j)
			}
		}
		if len(target.Notes) > 500 {
			return fmt.Errorf("[%d]: notes must be at most 500 characters", i)
		}
	}

	return nil
}
