// Package cmd provides CLI commands for the CertSight Agent.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cs-agent",
	Short: "CertSight Agent - TLS certificate observation agent",
	Long: `CertSight Agent fetches the TLS certificates presented by your endpoints
and extracts a normalized summary (subject, issuer, validity window,
resolved IP) for operational monitoring, e.g. detecting certificates
nearing expiry.

Certificates are fetched without chain validation on purpose: the agent
observes certificate metadata even when a certificate is self-signed,
expired or untrusted.

One-shot check:
  cs-agent check example.com grafana.internal:8443

Continuous monitoring:
  cs-agent start -c /path/to/certsight.yaml`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./certsight.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Bind flags to viper
	//nolint:errcheck // error is ignored because the flag is guaranteed to exist
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/certsight")
		viper.SetConfigType("yaml")
		viper.SetConfigName("certsight")
	}

	// Read environment variables with CS_ prefix
	viper.SetEnvPrefix("CS")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
