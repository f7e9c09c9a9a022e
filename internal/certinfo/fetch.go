package certinfo

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds DNS resolution, the TCP connect and the TLS
// handshake of a single fetch.
const DefaultTimeout = 5 * time.Second

// vendorTimeLayout is the timestamp shape RawCertificate carries, the
// classic "Jan  2 15:04:05 2006 GMT" rendering of certificate validity.
const vendorTimeLayout = "Jan _2 15:04:05 2006"

// Fetcher retrieves the peer certificate of a remote TLS endpoint. It
// holds no per-call state and is safe for concurrent use.
type Fetcher struct {
	timeout  time.Duration
	resolver *net.Resolver
	logger   *zap.Logger
}

// NewFetcher creates a Fetcher. A zero timeout falls back to
// DefaultTimeout.
func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		timeout:  timeout,
		resolver: net.DefaultResolver,
		logger:   logger,
	}
}

// insecureClientConfig builds the TLS client configuration used for
// certificate observation: the handshake runs normally, SNI carries the
// target hostname, but chain and hostname verification are disabled so
// the peer certificate is exposed even when self-signed, expired or
// untrusted.
//
// This configuration must never be reused for a connection that is meant
// to enforce trust.
func insecureClientConfig(hostname string) *tls.Config {
	return &tls.Config{
		ServerName:         hostname,
		InsecureSkipVerify: true, //nolint:gosec // observation only, trust is never enforced here
	}
}

// Fetch resolves hostname, connects to hostname:port, performs a
// verification-free TLS handshake and returns the peer certificate at
// depth 0 plus the resolved IP address. The IP comes from a resolution
// call separate from the dial, so under load-balanced DNS it may differ
// from the address actually connected to; that is accepted.
//
// The connection is closed on every exit path. One overall deadline
// covers resolution, connect and handshake, so a server that accepts TCP
// and then stalls mid-TLS cannot hang the caller.
func (f *Fetcher) Fetch(ctx context.Context, hostname string, port int) (*RawCertificate, string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	ips, err := f.resolver.LookupIP(ctx, "ip", hostname)
	if err != nil || len(ips) == 0 {
		if err == nil {
			err = fmt.Errorf("no addresses for %s", hostname)
		}
		return nil, "", &ResolutionError{Host: hostname, Err: err}
	}
	ip := ips[0].String()

	addr := net.JoinHostPort(hostname, strconv.Itoa(port))
	dialer := &net.Dialer{Timeout: f.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, "", classifyDialError(hostname, addr, err)
	}
	defer conn.Close()

	// The dial timeout only bounds the connect phase. Arm a deadline on
	// the raw connection so handshake reads cannot stall past it.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	tlsConn := tls.Client(conn, insecureClientConfig(hostname))
	defer tlsConn.Close()

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil, "", &TLSHandshakeError{Addr: addr, Err: err}
	}

	state := tlsConn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, "", &TLSHandshakeError{Addr: addr, Err: errors.New("no peer certificate presented")}
	}

	f.logger.Debug("fetched peer certificate",
		zap.String("hostname", hostname),
		zap.Int("port", port),
		zap.String("ip", ip),
	)

	return rawFromCertificate(state.PeerCertificates[0]), ip, nil
}

// classifyDialError sorts a transport failure into the error taxonomy.
// The dial performs its own resolution, so DNS failures can surface here
// as well as in the explicit lookup.
func classifyDialError(hostname, addr string, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ResolutionError{Host: hostname, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ConnectionTimeoutError{Addr: addr, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ConnectionTimeoutError{Addr: addr, Err: err}
	}

	return &ConnectionError{Addr: addr, Err: err}
}

// rawFromCertificate reduces a parsed leaf certificate to the transient
// RawCertificate shape: RDN sequences keyed by attribute long name and
// validity timestamps as vendor-format strings.
func rawFromCertificate(cert *x509.Certificate) *RawCertificate {
	return &RawCertificate{
		Subject:   rdnSequence(cert.Subject),
		Issuer:    rdnSequence(cert.Issuer),
		NotBefore: cert.NotBefore.UTC().Format(vendorTimeLayout) + " GMT",
		NotAfter:  cert.NotAfter.UTC().Format(vendorTimeLayout) + " GMT",
	}
}

// attrLongNames maps X.501 attribute type OIDs to their long names.
// Unmapped types keep their dotted OID string so nothing is silently
// dropped before the normalizer's table re-keys the result.
var attrLongNames = map[string]string{
	"2.5.4.3":              "commonName",
	"2.5.4.5":              "serialNumber",
	"2.5.4.6":              "countryName",
	"2.5.4.7":              "localityName",
	"2.5.4.8":              "stateOrProvinceName",
	"2.5.4.9":              "streetAddress",
	"2.5.4.10":             "organizationName",
	"2.5.4.11":             "organizationalUnitName",
	"2.5.4.17":             "postalCode",
	"1.2.840.113549.1.9.1": "emailAddress",
}

func rdnSequence(name pkix.Name) []RDN {
	seq := name.ToRDNSequence()
	out := make([]RDN, 0, len(seq))
	for _, set := range seq {
		rdn := make(RDN, 0, len(set))
		for _, atv := range set {
			long, ok := attrLongNames[atv.Type.String()]
			if !ok {
				long = atv.Type.String()
			}
			value, ok := atv.Value.(string)
			if !ok {
				value = fmt.Sprint(atv.Value)
			}
			rdn = append(rdn, Attribute{Name: long, Value: value})
		}
		out = append(out, rdn)
	}
	return out
}
