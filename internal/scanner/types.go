// Package scanner fans out certificate checks across configured targets.
package scanner

import (
	"time"

	"github.com/certsight-app/cs-agent/internal/certinfo"
)

// Result represents the outcome of checking a single target. Exactly one
// of Summary and Err is set: a failed check never produces a partial
// summary.
type Result struct {
	Summary   *certinfo.Summary
	Err       error
	Input     string
	CheckedAt time.Time
	Duration  time.Duration
}

// Success reports whether the check produced a summary.
func (r *Result) Success() bool {
	return r.Err == nil && r.Summary != nil
}

// ErrorKind returns the taxonomy label of the result's error, or an
// empty string for a successful result.
func (r *Result) ErrorKind() string {
	if r.Err == nil {
		return ""
	}
	return certinfo.Kind(r.Err)
}
