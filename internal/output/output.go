// Package output renders certificate summaries for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/certsight-app/cs-agent/internal/certinfo"
)

// Formats accepted by the check command.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// shortCodeOrder fixes the rendering order of distinguished-name keys.
var shortCodeOrder = []string{"C", "CN", "O", "OU", "L", "ST"}

// Render formats a summary in the requested format.
func Render(summary certinfo.Summary, format string) (string, error) {
	switch format {
	case FormatText:
		return Text(summary), nil
	case FormatJSON:
		return JSON(summary)
	default:
		return "", fmt.Errorf("unsupported output format %q (use %s or %s)", format, FormatText, FormatJSON)
	}
}

// Text renders the summary as a flat key-value document with a stable
// field order.
func Text(summary certinfo.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "domain: %s\n", summary.Domain)
	fmt.Fprintf(&b, "ip: %s\n", summary.IP)
	for _, code := range shortCodeOrder {
		fmt.Fprintf(&b, "subject.%s: %s\n", code, summary.Subject[code])
	}
	for _, code := range shortCodeOrder {
		fmt.Fprintf(&b, "issuer.%s: %s\n", code, summary.Issuer[code])
	}
	fmt.Fprintf(&b, "start_date: %s\n", summary.StartDate)
	fmt.Fprintf(&b, "expire_date: %s\n", summary.ExpireDate)

	return b.String()
}

// JSON renders the summary as indented JSON.
func JSON(summary certinfo.Summary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	return string(data), nil
}
