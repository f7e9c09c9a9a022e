package certinfo

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"math/big"
	"net"
	"regexp"
	"testing"
	"time"
)

// startTLSServer runs a TLS listener on localhost presenting a
// self-signed certificate with the given subject and validity window.
func startTLSServer(t *testing.T, subject pkix.Name, notBefore, notAfter time.Time) int {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      subject,
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}

	tlsCert := tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
	ln, err := tls.Listen("tcp", "localhost:0", &tls.Config{Certificates: []tls.Certificate{tlsCert}})
	if err != nil {
		t.Fatalf("starting TLS listener: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				_ = c.(*tls.Conn).Handshake()
			}(conn)
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port
}

func TestFetch_SelfSignedCertificate(t *testing.T) {
	subject := pkix.Name{
		CommonName:   "selfsigned.test",
		Organization: []string{"Test Org"},
		Country:      []string{"DE"},
	}
	port := startTLSServer(t, subject, time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))

	f := NewFetcher(3*time.Second, nil)
	raw, ip, err := f.Fetch(context.Background(), "localhost", port)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want success for self-signed certificate", err)
	}
	if net.ParseIP(ip) == nil {
		t.Errorf("Fetch() ip = %q, want a valid IP address", ip)
	}

	flat := utcNormalizer().flatten(raw.Subject)
	if flat["commonName"] != "selfsigned.test" {
		t.Errorf("subject commonName = %q, want %q", flat["commonName"], "selfsigned.test")
	}
	if flat["organizationName"] != "Test Org" {
		t.Errorf("subject organizationName = %q, want %q", flat["organizationName"], "Test Org")
	}
	if flat["countryName"] != "DE" {
		t.Errorf("subject countryName = %q, want %q", flat["countryName"], "DE")
	}

	// Validity strings carry the vendor timestamp shape.
	vendorRe := regexp.MustCompile(`^[A-Z][a-z]{2} {1,2}\d{1,2} \d{2}:\d{2}:\d{2} \d{4} GMT$`)
	if !vendorRe.MatchString(raw.NotBefore) {
		t.Errorf("NotBefore = %q, want vendor timestamp format", raw.NotBefore)
	}
	if !vendorRe.MatchString(raw.NotAfter) {
		t.Errorf("NotAfter = %q, want vendor timestamp format", raw.NotAfter)
	}
}

func TestFetch_ExpiredCertificate(t *testing.T) {
	// Observation must succeed even when the certificate is long expired.
	port := startTLSServer(t, pkix.Name{CommonName: "expired.test"},
		time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour))

	f := NewFetcher(3*time.Second, nil)
	raw, _, err := f.Fetch(context.Background(), "localhost", port)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want success for expired certificate", err)
	}
	if flat := utcNormalizer().flatten(raw.Subject); flat["commonName"] != "expired.test" {
		t.Errorf("subject commonName = %q, want %q", flat["commonName"], "expired.test")
	}
}

func TestFetch_HandshakeStallFailsBounded(t *testing.T) {
	// A server that accepts TCP but never speaks TLS must fail within
	// the fetch deadline, not hang.
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("starting listener: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close() // hold the connection open, never respond
		}
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	f := NewFetcher(time.Second, nil)
	start := time.Now()
	_, _, err = f.Fetch(context.Background(), "localhost", port)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Fetch() error = nil, want handshake failure")
	}
	var handshakeErr *TLSHandshakeError
	if !errors.As(err, &handshakeErr) {
		t.Fatalf("Fetch() error = %T (%v), want *TLSHandshakeError", err, err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("Fetch() took %v, want bounded by the deadline", elapsed)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	// Grab a free port, then close the listener so the connect is refused.
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("starting listener: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	f := NewFetcher(2*time.Second, nil)
	_, _, err = f.Fetch(context.Background(), "localhost", port)
	if err == nil {
		t.Fatal("Fetch() error = nil, want connection failure")
	}
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("Fetch() error = %T (%v), want *ConnectionError", err, err)
	}
}

func TestFetch_ResolutionError(t *testing.T) {
	f := NewFetcher(3*time.Second, nil)
	_, _, err := f.Fetch(context.Background(), "does-not-exist.invalid", 443)
	if err == nil {
		t.Fatal("Fetch() error = nil, want resolution failure")
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Fetch() error = %T (%v), want *ResolutionError", err, err)
	}
	if resErr.Host != "does-not-exist.invalid" {
		t.Errorf("ResolutionError.Host = %q, want %q", resErr.Host, "does-not-exist.invalid")
	}
}

func TestChecker_EndToEnd(t *testing.T) {
	subject := pkix.Name{CommonName: "check.test", Organization: []string{"Check Org"}}
	port := startTLSServer(t, subject, time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))
	input := fmt.Sprintf("localhost:%d", port)

	checker := New(3*time.Second, nil)
	summary, err := checker.Check(context.Background(), input)
	if err != nil {
		t.Fatalf("Check(%q) error = %v", input, err)
	}

	if summary.Domain != input {
		t.Errorf("Domain = %q, want original input %q", summary.Domain, input)
	}
	if summary.Subject["CN"] != "check.test" {
		t.Errorf("Subject[CN] = %q, want %q", summary.Subject["CN"], "check.test")
	}
	if summary.Subject["O"] != "Check Org" {
		t.Errorf("Subject[O] = %q, want %q", summary.Subject["O"], "Check Org")
	}
	// Self-signed: issuer mirrors subject.
	if summary.Issuer["CN"] != "check.test" {
		t.Errorf("Issuer[CN] = %q, want %q", summary.Issuer["CN"], "check.test")
	}

	canonicalRe := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
	if !canonicalRe.MatchString(summary.StartDate) {
		t.Errorf("StartDate = %q, want canonical YYYY-MM-DD HH:MM:SS", summary.StartDate)
	}
	if !canonicalRe.MatchString(summary.ExpireDate) {
		t.Errorf("ExpireDate = %q, want canonical YYYY-MM-DD HH:MM:SS", summary.ExpireDate)
	}
}

func TestChecker_InvalidInput(t *testing.T) {
	checker := New(time.Second, nil)
	_, err := checker.Check(context.Background(), "host:notanumber")
	if Kind(err) != KindInvalidTarget {
		t.Fatalf("Kind(err) = %q, want %q (err = %v)", Kind(err), KindInvalidTarget, err)
	}
}
