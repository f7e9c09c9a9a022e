package certinfo

import (
	"strconv"
	"strings"
)

// DefaultPort is used when the input carries no explicit port.
const DefaultPort = 443

// ParseTarget splits a host[:port] input into a Target. Inputs without a
// colon default to port 443. The split is on the first colon; everything
// to its right must be a valid port number in [1,65535].
func ParseTarget(input string) (Target, error) {
	hostname, portText, hasPort := strings.Cut(input, ":")
	if hostname == "" {
		return Target{}, &InvalidTargetError{Input: input, Reason: "empty hostname"}
	}
	if !hasPort {
		return Target{Hostname: hostname, Port: DefaultPort}, nil
	}

	port, err := strconv.Atoi(portText)
	if err != nil {
		return Target{}, &InvalidTargetError{Input: input, Reason: "port is not a number"}
	}
	if port < 1 || port > 65535 {
		return Target{}, &InvalidTargetError{Input: input, Reason: "port must be between 1 and 65535"}
	}

	return Target{Hostname: hostname, Port: port}, nil
}
