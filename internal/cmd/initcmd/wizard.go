package initcmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/huh"
)

// Wizard manages the interactive configuration wizard.
type Wizard struct {
	state      *WizardState
	outputPath string
}

// NewWizard creates a new wizard instance.
func NewWizard() *Wizard {
	return &Wizard{
		state: NewWizardState(),
	}
}

// SetOutputPath sets the output path (from command line flag).
func (w *Wizard) SetOutputPath(path string) {
	w.outputPath = path
	if path != "" {
		w.state.ConfigPath = path
	}
}

// Run executes the wizard flow.
func (w *Wizard) Run() error {
	// Setup signal handling for graceful Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println()
		fmt.Println(RenderWarning("Setup canceled by user"))
		os.Exit(0)
	}()

	// Print header
	fmt.Println()
	fmt.Println(RenderHeader())
	fmt.Println()

	// Step 1: Welcome and file configuration
	if err := w.runForm(NewWelcomeForm(w.state)); err != nil {
		return err
	}

	// Step 2: Check for existing file
	if err := w.handleExistingFile(); err != nil {
		return err
	}

	// Step 3: Agent configuration
	fmt.Println(RenderSection("Agent Configuration"))
	if err := w.runForm(NewAgentForm(w.state)); err != nil {
		return err
	}

	// Step 4: Report configuration
	fmt.Println(RenderSection("Report Configuration"))
	if err := w.runForm(NewReportForm(w.state)); err != nil {
		return err
	}

	// Step 5: Metrics configuration
	fmt.Println(RenderSection("Observability"))
	if err := w.runForm(NewMetricsForm(w.state)); err != nil {
		return err
	}

	// Step 6: Target configuration (loop)
	fmt.Println(RenderSection("Targets to Monitor"))
	if err := w.runTargetForms(); err != nil {
		return w.handleError(err)
	}

	// Step 7: Generate and validate config
	cfg, err := w.state.ToConfig()
	if err != nil {
		return w.handleError(fmt.Errorf("failed to create configuration: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return w.handleValidationError(err)
	}

	// Step 8: Write config file
	fmt.Println()
	if err := WriteConfig(cfg, w.state.ConfigPath); err != nil {
		return w.handleError(err)
	}

	// Step 9: Show success and next steps
	w.showSuccess()

	return nil
}

func (w *Wizard) runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		return w.handleError(err)
	}
	return nil
}

func (w *Wizard) runTargetForms() error {
	targetNum := 1

	for {
		// Reset current target for new entry
		w.state.ResetCurrentTarget()

		form := NewTargetForm(w.state, targetNum)
		if err := form.Run(); err != nil {
			return err
		}

		w.state.SaveCurrentTarget()

		// Check if user wants to add more
		if !w.state.AddAnother {
			break
		}

		targetNum++
	}

	// Validate we have at least one target
	if len(w.state.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}

	return nil
}

func (w *Wizard) handleExistingFile() error {
	if !FileExists(w.state.ConfigPath) {
		return nil
	}

	form := NewOverwriteConfirmForm(w.state, w.state.ConfigPath)
	if err := form.Run(); err != nil {
		return w.handleError(err)
	}

	if !w.state.OverwriteFile {
		fmt.Println(RenderWarning("Setup canceled: file already exists"))
		os.Exit(0)
	}

	return nil
}

func (w *Wizard) handleError(err error) error {
	if err == huh.ErrUserAborted {
		fmt.Println()
		fmt.Println(RenderWarning("Setup canceled"))
		os.Exit(0)
	}
	fmt.Println()
	fmt.Println(RenderError(err.Error()))
	return err
}

func (w *Wizard) handleValidationError(err error) error {
	fmt.Println()
	fmt.Println(RenderError("Configuration validation failed:"))
	fmt.Println(RenderError("  " + err.Error()))
	fmt.Println()
	fmt.Println(RenderInfo("Please run 'cs-agent init' again with corrected values."))
	return err
}

func (w *Wizard) showSuccess() {
	fmt.Println()
	fmt.Println(RenderSuccess("Config written to " + w.state.ConfigPath))
	fmt.Println(RenderSuccess("Validated successfully"))
	fmt.Println()

	// Show summary
	fmt.Println(SuccessStyle.Render("Configuration Summary:"))
	fmt.Println(MutedStyle.Render("  Agent:   ") + w.state.AgentName)
	fmt.Println(MutedStyle.Render("  Targets: ") + fmt.Sprintf("%d", len(w.state.Targets)))
	fmt.Println(MutedStyle.Render("  Scan:    ") + w.state.ScanInterval)
	if w.state.ReportEnabled {
		fmt.Println(MutedStyle.Render("  Report:  ") + w.state.ReportEndpoint)
	}
	if w.state.MetricsAddr != "" {
		fmt.Println(MutedStyle.Render("  Metrics: ") + w.state.MetricsAddr)
	}
	fmt.Println()

	fmt.Println(SuccessStyle.Render("Next steps:"))
	fmt.Println()
	fmt.Println("  To validate your config:")
	fmt.Println("    " + RenderCode("cs-agent validate -c "+w.state.ConfigPath))
	fmt.Println()
	fmt.Println("  To start monitoring:")
	fmt.Println("    " + RenderCode("cs-agent start -c "+w.state.ConfigPath))
	fmt.Println()
}

// RunNonInteractive runs the wizard in non-interactive mode using environment variables.
func RunNonInteractive(outputPath string) error {
	state := NewWizardState()
	state.ConfigPath = outputPath

	if name := os.Getenv("CS_AGENT_NAME"); name != "" {
		state.AgentName = name
	} else {
		state.AgentName = "default-agent"
	}

	if interval := os.Getenv("CS_SCAN_INTERVAL"); interval != "" {
		state.ScanInterval = interval
	}

	if level := os.Getenv("CS_LOG_LEVEL"); level != "" {
		state.LogLevel = level
	}

	if endpoint := os.Getenv("CS_REPORT_ENDPOINT"); endpoint != "" {
		state.ReportEnabled = true
		state.ReportEndpoint = endpoint
		state.ReportKey = os.Getenv("CS_REPORT_KEY")
		if state.ReportKey == "" {
			return fmt.Errorf("CS_REPORT_KEY environment variable is required when CS_REPORT_ENDPOINT is set")
		}
	}

	if addr := os.Getenv("CS_METRICS_ADDR"); addr != "" {
		state.MetricsAddr = addr
	}

	// Parse targets from CS_TARGETS (comma-separated host[:port] entries)
	targetsEnv := os.Getenv("CS_TARGETS")
	if targetsEnv != "" {
		for _, host := range strings.Split(targetsEnv, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				state.Targets = append(state.Targets, TargetInput{Host: host})
			}
		}
	}

	if len(state.Targets) == 0 {
		return fmt.Errorf("CS_TARGETS environment variable is required (comma-separated host[:port] entries)")
	}

	// Convert and validate
	cfg, err := state.ToConfig()
	if err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := WriteConfig(cfg, state.ConfigPath); err != nil {
		return err
	}

	fmt.Println(RenderSuccess("Config written to " + state.ConfigPath))
	return nil
}
