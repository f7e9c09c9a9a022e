package initcmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// NewWelcomeForm creates the welcome and file configuration form.
func NewWelcomeForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to CertSight Agent Setup!").
				Description("This wizard will help you create a configuration file for the CertSight Agent.\n\n"+
					"You'll need:\n"+
					"  • Hostnames (host or host:port) of certificates you want to monitor\n"+
					"  • Optionally a CertSight API key if you report results upstream"),

			huh.NewInput().
				Title("Config file path").
				Description("Where to save the configuration file").
				Placeholder("./certsight.yaml").
				Value(&state.ConfigPath).
				Validate(ValidateConfigPath),
		),
	).WithTheme(CreateTheme())
}

// NewAgentForm creates the agent configuration form.
func NewAgentForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Agent Configuration").
				Description("Configure agent behavior"),

			huh.NewInput().
				Title("Agent Name").
				Description("A unique name to identify this agent (e.g., production-edge-monitor)").
				Placeholder("my-agent").
				Value(&state.AgentName).
				Validate(ValidateAgentName),

			huh.NewSelect[string]().
				Title("Scan Interval").
				Description("How often to check the configured targets").
				Options(
					huh.NewOption("30 seconds", "30s"),
					huh.NewOption("1 minute (recommended)", "1m"),
					huh.NewOption("5 minutes", "5m"),
					huh.NewOption("15 minutes", "15m"),
				).
				Value(&state.ScanInterval),

			huh.NewSelect[string]().
				Title("Log Level").
				Description("Logging verbosity").
				Options(
					huh.NewOption("Debug (verbose)", "debug"),
					huh.NewOption("Info (recommended)", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error (quiet)", "error"),
				).
				Value(&state.LogLevel),
		),
	).WithTheme(CreateTheme())
}

// NewReportForm creates the optional report configuration form.
func NewReportForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Report Configuration").
				Description("Send scan results to a CertSight endpoint (optional)"),

			huh.NewConfirm().
				Title("Report results upstream?").
				Value(&state.ReportEnabled).
				Affirmative("Yes").
				Negative("No"),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Report Endpoint").
				Description("Base URL of the CertSight ingest API").
				Placeholder("https://ingest.certsight.app").
				Value(&state.ReportEndpoint).
				Validate(ValidateEndpoint),

			huh.NewInput().
				Title("CertSight API Key").
				Description("Your API key with 'agent:report' scope").
				Placeholder("cs_xxxxxxxx_xxxxxxxxxxxx").
				Value(&state.ReportKey).
				EchoMode(huh.EchoModePassword).
				Validate(ValidateReportKey),
		).WithHideFunc(func() bool {
			return !state.ReportEnabled
		}),
	).WithTheme(CreateTheme())
}

// NewMetricsForm creates the optional metrics configuration form.
func NewMetricsForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Observability Settings").
				Description("Configure the Prometheus metrics endpoint (optional)"),

			huh.NewSelect[string]().
				Title("Metrics Listen Address").
				Description("Address for the /metrics endpoint. Leave disabled to skip.").
				Options(
					huh.NewOption("Disabled", ""),
					huh.NewOption(":9090 (recommended)", ":9090"),
					huh.NewOption(":8080", ":8080"),
					huh.NewOption("127.0.0.1:9090", "127.0.0.1:9090"),
				).
				Value(&state.MetricsAddr),
		),
	).WithTheme(CreateTheme())
}

// NewTargetForm creates a target entry form.
func NewTargetForm(state *WizardState, targetNum int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("Target #%d", targetNum)).
				Description("Add a TLS endpoint to monitor"),

			huh.NewInput().
				Title("Host").
				Description("The host to check, with an optional port (e.g., api.example.com or api.example.com:8443)").
				Placeholder("api.example.com").
				Value(&state.CurrentTarget.Host).
				Validate(ValidateTarget),

			huh.NewInput().
				Title("Tags (comma-separated)").
				Description("Optional tags for organization").
				Placeholder("production, api").
				Value(&state.CurrentTarget.Tags).
				Validate(ValidateTags),

			huh.NewInput().
				Title("Notes").
				Description("Optional notes about this target").
				Placeholder("Main API endpoint").
				Value(&state.CurrentTarget.Notes).
				Validate(ValidateNotes),

			huh.NewConfirm().
				Title("Add another target?").
				Value(&state.AddAnother).
				Affirmative("Yes").
				Negative("No"),
		),
	).WithTheme(CreateTheme())
}

// NewOverwriteConfirmForm creates a form to confirm file overwrite.
func NewOverwriteConfirmForm(state *WizardState, path string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("File '%s' already exists. Overwrite?", path)).
				Description("The existing file will be replaced with the new configuration.").
				Value(&state.OverwriteFile).
				Affirmative("Yes, overwrite").
				Negative("No, cancel"),
		),
	).WithTheme(CreateTheme())
}
