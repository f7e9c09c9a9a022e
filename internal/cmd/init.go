package cmd

import (
	"github.com/spf13/cobra"

	"github.com/certsight-app/cs-agent/internal/cmd/initcmd"
)

var (
	initOutputPath     string
	initNonInteractive bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new CertSight Agent configuration",
	Long: `Interactively create a new CertSight Agent configuration file.

The wizard will guide you through setting up:
  • Agent behavior (name, scan interval, log level)
  • Targets to observe (host[:port], tags)
  • Optional result delivery and metrics exposition

Examples:
  # Interactive mode (default)
  cs-agent init

  # Specify output path
  cs-agent init -o /etc/certsight/certsight.yaml

  # Non-interactive mode (for CI/scripting)
  CS_AGENT_NAME=prod CS_TARGETS=api.example.com cs-agent init --non-interactive

Environment variables for non-interactive mode:
  CS_TARGETS          (required) Comma-separated host[:port] targets
  CS_AGENT_NAME       (optional) Agent name (default: default-agent)
  CS_SCAN_INTERVAL    (optional) Scan interval (default: 1m)
  CS_LOG_LEVEL        (optional) Log level (default: info)
  CS_REPORT_ENDPOINT  (optional) Ingest endpoint URL
  CS_REPORT_KEY       (required with CS_REPORT_ENDPOINT) Ingest API key
  CS_METRICS_ADDR     (optional) Prometheus listen address`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", "./certsight.yaml",
		"Output path for the configuration file")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false,
		"Run in non-interactive mode using environment variables")
}

func runInit(_ *cobra.Command, _ []string) error {
	if initNonInteractive {
		return initcmd.RunNonInteractive(initOutputPath)
	}

	wizard := initcmd.NewWizard()
	wizard.SetOutputPath(initOutputPath)
	return wizard.Run()
}
