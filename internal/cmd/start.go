package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/certsight-app/cs-agent/internal/agent"
	"github.com/certsight-app/cs-agent/internal/config"
	"github.com/certsight-app/cs-agent/internal/state"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the CertSight monitoring agent",
	Long: `Start the CertSight Agent to periodically check the configured targets,
expose metrics and optionally deliver results to an ingest endpoint.

Example:
  cs-agent start -c /path/to/certsight.yaml
  cs-agent start --config certsight.yaml`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	// Load and validate configuration
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return fmt.Errorf("invalid configuration: %w", validationErr)
	}

	// Load state (agent ID persistence)
	stateManager := state.NewManager(viper.ConfigFileUsed())
	if loadErr := stateManager.Load(); loadErr != nil {
		// Don't fail on state load errors - we'll create new state
		fmt.Printf("Note: %v (will create new state)\n", loadErr)
	}

	// Create agent
	a, err := agent.New(cfg, stateManager)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived signal %v, shutting down...\n", sig)
		cancel()
	}()

	// Start the agent
	fmt.Printf("Starting CertSight Agent '%s'...\n", cfg.Agent.Name)
	fmt.Printf("Observing %d target(s)\n", len(cfg.Targets))
	fmt.Printf("Scan interval: %s\n", cfg.Agent.ScanInterval)

	if err := a.Run(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("agent error: %w", err)
	}

	fmt.Println("Agent stopped gracefully")
	return nil
}
