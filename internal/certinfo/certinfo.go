// Package certinfo retrieves the TLS certificate presented by a remote
// host and reduces it to a flat summary suitable for expiry monitoring.
//
// The package deliberately does NOT validate the certificate chain: its
// job is to observe certificate metadata, so fetching must succeed even
// for self-signed, expired or otherwise untrusted certificates.
package certinfo

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Target is a parsed host[:port] input.
type Target struct {
	Hostname string
	Port     int
}

// Attribute is a single attributeType/attributeValue pair of a relative
// distinguished name, keyed by the attribute's long name
// (e.g. "commonName").
type Attribute struct {
	Name  string
	Value string
}

// RDN is one relative distinguished name set. The certificate sources we
// deal with emit one pair per set; anything else is handled defensively
// by the normalizer.
type RDN []Attribute

// RawCertificate carries the peer certificate fields the normalizer
// consumes: the subject/issuer RDN sequences and the validity window as
// vendor-format timestamp strings. It is produced by the fetcher and not
// retained after normalization.
type RawCertificate struct {
	Subject   []RDN
	Issuer    []RDN
	NotBefore string
	NotAfter  string
}

// Summary is the flat output record of a certificate check. Subject and
// Issuer always contain all six short-code keys (C, CN, O, OU, L, ST),
// with empty strings for attributes the certificate does not carry.
// Domain round-trips the original host[:port] input verbatim.
type Summary struct {
	Domain     string            `json:"domain"`
	IP         string            `json:"ip"`
	Subject    map[string]string `json:"subject"`
	Issuer     map[string]string `json:"issuer"`
	StartDate  string            `json:"start_date"`
	ExpireDate string            `json:"expire_date"`
}

// Checker is the single entry point for downstream callers: one
// host[:port] string in, one Summary out. Each check is stateless and
// self-contained, so a single Checker is safe for concurrent use.
type Checker struct {
	fetcher    *Fetcher
	normalizer *Normalizer
}

// New creates a Checker. A zero timeout falls back to DefaultTimeout and
// a nil logger disables the normalizer's defensive logging.
func New(timeout time.Duration, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		fetcher:    NewFetcher(timeout, logger),
		normalizer: NewNormalizer(DefaultNameTable, time.Local, logger),
	}
}

// Check parses input, fetches the peer certificate and normalizes it.
// It fails fast: the first failing stage aborts the check with a typed
// error and no partial Summary. No retries are performed here; callers
// wanting retry semantics wrap this call.
func (c *Checker) Check(ctx context.Context, input string) (Summary, error) {
	target, err := ParseTarget(input)
	if err != nil {
		return Summary{}, err
	}

	raw, ip, err := c.fetcher.Fetch(ctx, target.Hostname, target.Port)
	if err != nil {
		return Summary{}, err
	}

	return c.normalizer.Normalize(raw, ip, input)
}
