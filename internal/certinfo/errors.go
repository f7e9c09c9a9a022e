package certinfo

import (
	"errors"
	"fmt"
)

// Error kind labels, used for logs and metrics grouping.
const (
	KindInvalidTarget     = "invalid_target"
	KindResolution        = "resolution"
	KindConnectionTimeout = "connection_timeout"
	KindConnection        = "connection"
	KindTLSHandshake      = "tls_handshake"
	KindTimestampParse    = "timestamp_parse"
	KindUnknown           = "unknown"
)

// InvalidTargetError reports a malformed host[:port] input string.
type InvalidTargetError struct {
	Input  string
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %q: %s", e.Input, e.Reason)
}

// ResolutionError reports a DNS resolution failure for a hostname.
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %q: %v", e.Host, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ConnectionTimeoutError reports a transport connection that timed out.
type ConnectionTimeoutError struct {
	Addr string
	Err  error
}

func (e *ConnectionTimeoutError) Error() string {
	return fmt.Sprintf("connection to %q timed out: %v", e.Addr, e.Err)
}

func (e *ConnectionTimeoutError) Unwrap() error { return e.Err }

// ConnectionError reports a transport connection that was refused or is
// otherwise unreachable.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %q failed: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TLSHandshakeError reports a TLS handshake that could not complete at
// all: protocol mismatch, mid-handshake timeout or connection reset.
// Trust failures never surface here because chain verification is
// disabled for observation.
type TLSHandshakeError struct {
	Addr string
	Err  error
}

func (e *TLSHandshakeError) Error() string {
	return fmt.Sprintf("TLS handshake with %q failed: %v", e.Addr, e.Err)
}

func (e *TLSHandshakeError) Unwrap() error { return e.Err }

// TimestampParseError reports a certificate validity timestamp that no
// known layout could parse.
type TimestampParseError struct {
	Value string
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("unparseable certificate timestamp %q", e.Value)
}

// Kind maps an error from this package to its taxonomy label. Unknown
// errors (including nil wrapping mistakes upstream) report KindUnknown.
func Kind(err error) string {
	var (
		invalidTarget  *InvalidTargetError
		resolution     *ResolutionError
		connTimeout    *ConnectionTimeoutError
		connection     *ConnectionError
		handshake      *TLSHandshakeError
		timestampParse *TimestampParseError
	)

	switch {
	case errors.As(err, &invalidTarget):
		return KindInvalidTarget
	case errors.As(err, &resolution):
		return KindResolution
	case errors.As(err, &connTimeout):
		return KindConnectionTimeout
	case errors.As(err, &connection):
		return KindConnection
	case errors.As(err, &handshake):
		return KindTLSHandshake
	case errors.As(err, &timestampParse):
		return KindTimestampParse
	default:
		return KindUnknown
	}
}
