// Package initcmd provides the interactive init command wizard.
package initcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/certsight-app/cs-agent/internal/config"
)

// WizardState holds all collected input during the wizard.
type WizardState struct {
	// Output configuration
	ConfigPath    string
	OverwriteFile bool

	// Agent configuration
	AgentName    string
	ScanInterval string
	LogLevel     string
	Concurrency  int

	// Optional report configuration
	ReportEnabled  bool
	ReportEndpoint string
	ReportKey      string

	// Optional metrics configuration
	MetricsAddr string

	// Target configuration
	Targets       []TargetInput
	CurrentTarget TargetInput
	AddAnother    bool
}

// TargetInput represents user input for one target.
type TargetInput struct {
	Host  string // host[:port]
	Tags  string // comma-separated, parsed later
	Notes string
}

// NewWizardState creates a new WizardState with sensible defaults.
func NewWizardState() *WizardState {
	return &WizardState{
		ConfigPath:     "./certsight.yaml",
		AgentName:      "",
		ScanInterval:   "1m",
		LogLevel:       "info",
		Concurrency:    10,
		ReportEndpoint: "https://ingest.certsight.app",
		Targets:        make([]TargetInput, 0),
	}
}

// ToConfig converts the wizard state to a config.Config struct.
func (s *WizardState) ToConfig() (*config.Config, error) {
	scanInterval, err := time.ParseDuration(s.ScanInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid scan interval: %w", err)
	}

	targets := make([]config.TargetConfig, 0, len(s.Targets))
	for _, t := range s.Targets {
		targets = append(targets, config.TargetConfig{
			Host:  strings.TrimSpace(t.Host),
			Tags:  parseTags(t.Tags),
			Notes: strings.TrimSpace(t.Notes),
		})
	}

	cfg := &config.Config{
		Agent: config.AgentConfig{
			Name:         s.AgentName,
			LogLevel:     s.LogLevel,
			ScanInterval: scanInterval,
			CheckTimeout: 5 * time.Second,
			Concurrency:  s.Concurrency,
		},
		Metrics: config.MetricsConfig{
			Addr: s.MetricsAddr,
		},
		Targets: targets,
	}

	if s.ReportEnabled {
		cfg.Report = config.ReportConfig{
			Endpoint: s.ReportEndpoint,
			Key:      s.ReportKey,
			Timeout:  30 * time.Second,
		}
	}

	return cfg, nil
}

// parseTags parses comma-separated tags into a slice.
func parseTags(tagsStr string) []string {
	if strings.TrimSpace(tagsStr) == "" {
		return nil
	}

	parts := strings.Split(tagsStr, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ResetCurrentTarget resets the current target input for the next entry.
func (s *WizardState) ResetCurrentTarget() {
	s.CurrentTarget = TargetInput{}
	s.AddAnother = false
}

// SaveCurrentTarget saves the current target to the list.
func (s *WizardState) SaveCurrentTarget() {
	if s.CurrentTarget.Host != "" {
		s.Targets = append(s.Targets, s.CurrentTarget)
	}
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteConfig renders the configuration as YAML and writes it to path,
// creating the parent directory if needed.
func WriteConfig(cfg *config.Config, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	var b strings.Builder

	b.WriteString("# CertSight Agent configuration\n")
	b.WriteString("# Generated by 'cs-agent init'\n\n")

	b.WriteString("agent:\n")
	fmt.Fprintf(&b, "  name: %q\n", cfg.Agent.Name)
	fmt.Fprintf(&b, "  log_level: %s\n", cfg.Agent.LogLevel)
	fmt.Fprintf(&b, "  scan_interval: %s\n", cfg.Agent.ScanInterval)
	fmt.Fprintf(&b, "  check_timeout: %s\n", cfg.Agent.CheckTimeout)
	fmt.Fprintf(&b, "  concurrency: %d\n", cfg.Agent.Concurrency)

	if cfg.Report.Enabled() {
		b.WriteString("\nreport:\n")
		fmt.Fprintf(&b, "  endpoint: %q\n", cfg.Report.Endpoint)
		fmt.Fprintf(&b, "  key: %q\n", cfg.Report.Key)
		fmt.Fprintf(&b, "  timeout: %s\n", cfg.Report.Timeout)
	}

	if cfg.Metrics.Enabled() {
		b.WriteString("\nmetrics:\n")
		fmt.Fprintf(&b, "  addr: %q\n", cfg.Metrics.Addr)
	}

	b.WriteString("\ntargets:\n")
	for _, t := range cfg.Targets {
		fmt.Fprintf(&b, "  - host: %q\n", t.Host)
		if len(t.Tags) > 0 {
			b.WriteString("    tags:\n")
			for _, tag := range t.Tags {
				fmt.Fprintf(&b, "      - %q\n", tag)
			}
		}
		if t.Notes != "" {
			fmt.Fprintf(&b, "    notes: %q\n", t.Notes)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
