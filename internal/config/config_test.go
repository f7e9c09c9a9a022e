package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func validConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:         "test-agent",
			LogLevel:     "info",
			ScanInterval: time.Minute,
			CheckTimeout: 5 * time.Second,
			Concurrency:  10,
		},
		Targets: []TargetConfig{
			{Host: "example.com"},
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("targets", []map[string]interface{}{{"host": "example.com"}})

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Agent.Name != "default-agent" {
		t.Errorf("Agent.Name = %v, want default-agent", cfg.Agent.Name)
	}
	if cfg.Agent.LogLevel != "info" {
		t.Errorf("Agent.LogLevel = %v, want info", cfg.Agent.LogLevel)
	}
	if cfg.Agent.ScanInterval != time.Minute {
		t.Errorf("Agent.ScanInterval = %v, want 1m", cfg.Agent.ScanInterval)
	}
	if cfg.Agent.CheckTimeout != 5*time.Second {
		t.Errorf("Agent.CheckTimeout = %v, want 5s", cfg.Agent.CheckTimeout)
	}
	if cfg.Agent.Concurrency != 10 {
		t.Errorf("Agent.Concurrency = %v, want 10", cfg.Agent.Concurrency)
	}
	if cfg.Report.Timeout != 30*time.Second {
		t.Errorf("Report.Timeout = %v, want 30s", cfg.Report.Timeout)
	}
	if cfg.Report.Enabled() {
		t.Error("Report.Enabled() = true, want false without an endpoint")
	}
	if cfg.Metrics.Enabled() {
		t.Error("Metrics.Enabled() = true, want false without an address")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	v := viper.New()
	v.Set("agent.name", "edge-agent")
	v.Set("agent.scan_interval", "5m")
	v.Set("agent.retries", 2)
	v.Set("report.endpoint", "https://ingest.certsight.app")
	v.Set("report.key", "cs_live_xxxxxxxxxxxx")
	v.Set("metrics.addr", ":9402")
	v.Set("targets", []map[string]interface{}{
		{"host": "example.com:8443", "tags": []string{"edge"}},
	})

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Agent.Name != "edge-agent" {
		t.Errorf("Agent.Name = %v, want edge-agent", cfg.Agent.Name)
	}
	if cfg.Agent.ScanInterval != 5*time.Minute {
		t.Errorf("Agent.ScanInterval = %v, want 5m", cfg.Agent.ScanInterval)
	}
	if cfg.Agent.Retries != 2 {
		t.Errorf("Agent.Retries = %v, want 2", cfg.Agent.Retries)
	}
	if !cfg.Report.Enabled() {
		t.Error("Report.Enabled() = false, want true")
	}
	if !cfg.Metrics.Enabled() {
		t.Error("Metrics.Enabled() = false, want true")
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Host != "example.com:8443" {
		t.Errorf("Targets = %+v, want one target example.com:8443", cfg.Targets)
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_Agent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Agent.Name = "" }},
		{"name too long", func(c *Config) { c.Agent.Name = string(make([]byte, 101)) }},
		{"scan interval too short", func(c *Config) { c.Agent.ScanInterval = 5 * time.Second }},
		{"check timeout too short", func(c *Config) { c.Agent.CheckTimeout = 100 * time.Millisecond }},
		{"concurrency zero", func(c *Config) { c.Agent.Concurrency = 0 }},
		{"concurrency too high", func(c *Config) { c.Agent.Concurrency = 51 }},
		{"negative retries", func(c *Config) { c.Agent.Retries = -1 }},
		{"bad log level", func(c *Config) { c.Agent.LogLevel = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestValidate_Report(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"disabled needs no key", func(c *Config) {}, false},
		{"enabled with key", func(c *Config) {
			c.Report.Endpoint = "https://ingest.certsight.app"
			c.Report.Key = "cs_live_xxxxxxxxxxxx"
			c.Report.Timeout = 30 * time.Second
		}, false},
		{"missing key", func(c *Config) {
			c.Report.Endpoint = "https://ingest.certsight.app"
			c.Report.Timeout = 30 * time.Second
		}, true},
		{"wrong key prefix", func(c *Config) {
			c.Report.Endpoint = "https://ingest.certsight.app"
			c.Report.Key = "sk_live_xxxxxxxxxxxx"
			c.Report.Timeout = 30 * time.Second
		}, true},
		{"bad scheme", func(c *Config) {
			c.Report.Endpoint = "ftp://ingest.certsight.app"
			c.Report.Key = "cs_live_xxxxxxxxxxxx"
			c.Report.Timeout = 30 * time.Second
		}, true},
		{"timeout too short", func(c *Config) {
			c.Report.Endpoint = "https://ingest.certsight.app"
			c.Report.Key = "cs_live_xxxxxxxxxxxx"
			c.Report.Timeout = 100 * time.Millisecond
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Targets(t *testing.T) {
	tests := []struct {
		name    string
		targets []TargetConfig
		wantErr bool
	}{
		{"valid plain host", []TargetConfig{{Host: "example.com"}}, false},
		{"valid host with port", []TargetConfig{{Host: "example.com:8443"}}, false},
		{"none", nil, true},
		{"empty host", []TargetConfig{{Host: ""}}, true},
		{"bad port", []TargetConfig{{Host: "example.com:notanumber"}}, true},
		{"duplicate", []TargetConfig{{Host: "example.com"}, {Host: "example.com"}}, true},
		{"oversize tag", []TargetConfig{{Host: "example.com", Tags: []string{string(make([]byte, 51))}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Targets = tt.targets
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
