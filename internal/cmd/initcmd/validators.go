package initcmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/certsight-app/cs-agent/internal/certinfo"
)

// ValidateConfigPath validates the output file path.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}

	// Check if directory exists or can be created
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				// Directory doesn't exist, we'll create it during write
				return nil
			}
			return fmt.Errorf("cannot access directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("'%s' is not a directory", dir)
		}
	}

	return nil
}

// ValidateReportKey validates the report API key format.
func ValidateReportKey(key string) error {
	if key == "" {
		return fmt.Errorf("API key is required")
	}

	if !strings.HasPrefix(key, "cs_") {
		return fmt.Errorf("API key must start with 'cs_'")
	}

	if len(key) < 10 {
		return fmt.Errorf("API key appears too short")
	}

	return nil
}

// ValidateEndpoint validates the report endpoint URL.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return nil // Will use default
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use http or https")
	}

	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}

	return nil
}

// ValidateAgentName validates the agent name.
func ValidateAgentName(name string) error {
	if name == "" {
		return fmt.Errorf("agent name is required")
	}

	if len(name) > 100 {
		return fmt.Errorf("name must be at most 100 characters")
	}

	// Check for invalid characters
	if strings.ContainsAny(name, "\n\r\t") {
		return fmt.Errorf("name cannot contain newlines or tabs")
	}

	return nil
}

// ValidateTarget validates a target in host[:port] form.
func ValidateTarget(target string) error {
	if target == "" {
		return fmt.Errorf("target is required")
	}

	if strings.Contains(target, " ") {
		return fmt.Errorf("target cannot contain spaces")
	}

	if strings.Contains(target, "://") {
		return fmt.Errorf("target should not include protocol (use 'example.com' not 'https://example.com')")
	}

	if _, err := certinfo.ParseTarget(target); err != nil {
		return fmt.Errorf("invalid target: %v", err)
	}

	return nil
}

// ValidateScanInterval validates a scan interval duration string.
func ValidateScanInterval(interval string) error {
	if interval == "" {
		return fmt.Errorf("scan interval is required")
	}

	d, err := time.ParseDuration(interval)
	if err != nil {
		return fmt.Errorf("invalid duration (use e.g. '1m', '30s', '1h')")
	}

	if d < 10*time.Second {
		return fmt.Errorf("scan interval must be at least 10s")
	}

	return nil
}

// ValidateMetricsAddr validates a metrics listen address.
func ValidateMetricsAddr(addr string) error {
	if addr == "" {
		return nil // Metrics are optional
	}

	if !strings.Contains(addr, ":") {
		return fmt.Errorf("address must include a port (use e.g. ':9090')")
	}

	return nil
}

// ValidateTags validates the tags input.
func ValidateTags(tagsStr string) error {
	if tagsStr == "" {
		return nil // Tags are optional
	}

	parts := strings.Split(tagsStr, ",")
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if len(tag) > 50 {
			return fmt.Errorf("each tag must be at most 50 characters")
		}
	}

	return nil
}

// ValidateNotes validates the notes input.
func ValidateNotes(notes string) error {
	if len(notes) > 500 {
		return fmt.Errorf("notes must be at most 500 characters")
	}
	return nil
}
