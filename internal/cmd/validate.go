package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/certsight-app/cs-agent/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the CertSight Agent configuration file without starting the agent.

Example:
  cs-agent validate -c /path/to/certsight.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  Agent name: %s\n", cfg.Agent.Name)
	fmt.Printf("  Targets: %d\n", len(cfg.Targets))
	fmt.Printf("  Scan interval: %s\n", cfg.Agent.ScanInterval)
	fmt.Printf("  Check timeout: %s\n", cfg.Agent.CheckTimeout)
	if cfg.Report.Enabled() {
		fmt.Printf("  Ingest endpoint: %s\n", cfg.Report.Endpoint)
	}
	if cfg.Metrics.Enabled() {
		fmt.Printf("  Metrics address: %s\n", cfg.Metrics.Addr)
	}

	return nil
}
