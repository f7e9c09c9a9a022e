package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/certsight-app/cs-agent/internal/certinfo"
	"github.com/certsight-app/cs-agent/internal/output"
)

var (
	checkFormat  string
	checkTimeout time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check <host[:port]>...",
	Short: "Fetch and print certificate summaries for one or more targets",
	Long: `Check fetches the TLS certificate of each target and prints its
normalized summary. The port defaults to 443 when omitted.

A failing target does not abort the remaining ones; its error is printed
to stderr and the command exits non-zero if any target failed.

Examples:
  cs-agent check example.com
  cs-agent check example.com:8443 api.example.com --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", output.FormatText,
		"output format: text or json")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", certinfo.DefaultTimeout,
		"per-target timeout covering DNS, connect and TLS handshake")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to setup logger: %w", err)
		}
	}

	checker := certinfo.New(checkTimeout, logger)

	failed := 0
	for i, target := range args {
		summary, err := checker.Check(ctx, target)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", target, certinfo.Kind(err), err)
			continue
		}

		rendered, err := output.Render(summary, checkFormat)
		if err != nil {
			return err
		}
		if i > 0 && checkFormat == output.FormatText {
			fmt.Println()
		}
		fmt.Print(rendered)
		if checkFormat == output.FormatJSON {
			fmt.Println()
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d targets failed", failed, len(args))
	}
	return nil
}
