package certinfo

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid target", &InvalidTargetError{Input: "x:y"}, KindInvalidTarget},
		{"resolution", &ResolutionError{Host: "x"}, KindResolution},
		{"connection timeout", &ConnectionTimeoutError{Addr: "x:443"}, KindConnectionTimeout},
		{"connection", &ConnectionError{Addr: "x:443"}, KindConnection},
		{"tls handshake", &TLSHandshakeError{Addr: "x:443"}, KindTLSHandshake},
		{"timestamp parse", &TimestampParseError{Value: "x"}, KindTimestampParse},
		{"wrapped", fmt.Errorf("check failed: %w", &ResolutionError{Host: "x"}), KindResolution},
		{"unknown", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorsNameOffendingTarget(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid target", &InvalidTargetError{Input: "bad:input", Reason: "port is not a number"}, "bad:input"},
		{"resolution", &ResolutionError{Host: "missing.example", Err: errors.New("nxdomain")}, "missing.example"},
		{"connection", &ConnectionError{Addr: "example.com:443", Err: errors.New("refused")}, "example.com:443"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			if !strings.Contains(msg, tt.want) {
				t.Errorf("Error() = %q, want it to contain %q", msg, tt.want)
			}
		})
	}
}
