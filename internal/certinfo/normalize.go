package certinfo

import (
	"time"

	"go.uber.org/zap"
)

// CanonicalTimeLayout is the fixed local-time rendering of certificate
// validity timestamps in a Summary.
const CanonicalTimeLayout = "2006-01-02 15:04:05"

// NameTable maps output short codes to RDN attribute long names. It is
// passed into the Normalizer explicitly so certificates with unmapped
// attribute types can be covered in tests with a substitute table.
type NameTable map[string]string

// DefaultNameTable is the fixed short-code table for subject/issuer
// output. Every short code is always present in the output, mapping to
// the empty string when the certificate lacks the attribute.
var DefaultNameTable = NameTable{
	"C":  "countryName",
	"CN": "commonName",
	"O":  "organizationName",
	"OU": "organizationalUnitName",
	"L":  "localityName",
	"ST": "stateOrProvinceName",
}

// timestampLayouts are tried in order against certificate validity
// strings. The first entry is the native shape of the certificate
// source; the rest keep the parser permissive for other vendors.
var timestampLayouts = []string{
	"Jan _2 15:04:05 2006 MST",
	"Jan _2 15:04:05 2006 -0700",
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02 15:04:05 -0700 MST",
	"20060102150405Z0700",
}

// Normalizer converts a RawCertificate into a Summary. It is a pure
// transformation over its inputs; the only side effect is a defensive
// log line for malformed RDN sets.
type Normalizer struct {
	names    NameTable
	location *time.Location
	logger   *zap.Logger
}

// NewNormalizer creates a Normalizer rendering timestamps in the given
// location. A nil table falls back to DefaultNameTable and a nil
// location to the system local timezone.
func NewNormalizer(names NameTable, location *time.Location, logger *zap.Logger) *Normalizer {
	if names == nil {
		names = DefaultNameTable
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{names: names, location: location, logger: logger}
}

// Normalize flattens the raw certificate's subject and issuer, re-keys
// them through the short-code table and converts both validity
// timestamps to the canonical local-time format. The returned Summary's
// Domain is originalInput verbatim, port or not.
func (n *Normalizer) Normalize(raw *RawCertificate, ip, originalInput string) (Summary, error) {
	startDate, err := n.parseTimestamp(raw.NotBefore)
	if err != nil {
		return Summary{}, err
	}
	expireDate, err := n.parseTimestamp(raw.NotAfter)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Domain:     originalInput,
		IP:         ip,
		Subject:    n.shortNames(n.flatten(raw.Subject)),
		Issuer:     n.shortNames(n.flatten(raw.Issuer)),
		StartDate:  startDate,
		ExpireDate: expireDate,
	}, nil
}

// flatten reduces a sequence of one-pair RDN sets to a flat long-name
// mapping. Duplicate attribute types resolve last-write-wins, matching
// the left-to-right build order of the certificate source. Sets with
// zero or multiple pairs are logged and skipped rather than crashed on.
func (n *Normalizer) flatten(rdns []RDN) map[string]string {
	flat := make(map[string]string, len(rdns))
	for _, rdn := range rdns {
		if len(rdn) != 1 {
			n.logger.Warn("skipping RDN set without exactly one attribute",
				zap.Int("attributes", len(rdn)),
			)
			continue
		}
		flat[rdn[0].Name] = rdn[0].Value
	}
	return flat
}

// shortNames re-keys a flat long-name mapping into short-code form.
// Every short code of the table appears in the result, absent attributes
// as empty strings.
func (n *Normalizer) shortNames(flat map[string]string) map[string]string {
	out := make(map[string]string, len(n.names))
	for code, long := range n.names {
		out[code] = flat[long]
	}
	return out
}

func (n *Normalizer) parseTimestamp(value string) (string, error) {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.In(n.location).Format(CanonicalTimeLayout), nil
		}
	}
	return "", &TimestampParseError{Value: value}
}
