// Package report delivers scan results to a CertSight ingest endpoint.
package report

import (
	"time"

	"github.com/certsight-app/cs-agent/internal/certinfo"
)

// Payload is the batch request body for one scan round.
type Payload struct {
	AgentID      string         `json:"agent_id,omitempty"`
	AgentName    string         `json:"agent_name"`
	AgentVersion string         `json:"agent_version,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	Results      []TargetResult `json:"results"`
}

// TargetResult carries one target's check outcome. Summary is nil for a
// failed check, in which case Error and ErrorKind describe the failure.
type TargetResult struct {
	Target    string             `json:"target"`
	CheckedAt time.Time          `json:"checked_at"`
	Summary   *certinfo.Summary  `json:"summary,omitempty"`
	Error     string             `json:"error,omitempty"`
	ErrorKind string             `json:"error_kind,omitempty"`
	Tags      []string           `json:"tags,omitempty"`
	Notes     string             `json:"notes,omitempty"`
}

// Response is the ingest endpoint's reply.
type Response struct {
	Success  bool      `json:"success"`
	AgentID  string    `json:"agent_id,omitempty"`
	Accepted int       `json:"accepted"`
	Error    *APIError `json:"error,omitempty"`
}

// APIError is the structured error body of a failed ingest request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
