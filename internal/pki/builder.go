package pki

import (
	"crypto"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"
)

// Subject returns the fixed development subject with the given common name.
// Every certificate this tool issues shares the same organizational fields;
// only the common name varies.
func Subject(commonName string) pkix.Name {
	return pkix.Name{
		Country:      []string{"US"},
		Province:     []string{"Development"},
		Locality:     []string{"Local"},
		Organization: []string{"Testing Organization"},
		CommonName:   commonName,
	}
}

// CertificateBuilder assembles an x509.Certificate template. All extension
// values are collected up front and fixed at Build time; a signed artifact
// is never mutated afterwards.
type CertificateBuilder struct {
	subject      pkix.Name
	dnsNames     []string
	ipAddresses  []net.IP
	validityDays int
	keyUsage     x509.KeyUsage
	extKeyUsage  []x509.ExtKeyUsage
	isCA         bool
	serial       *big.Int
}

// NewCertificateBuilder creates a new certificate builder.
func NewCertificateBuilder() *CertificateBuilder {
	return &CertificateBuilder{}
}

// Subject sets the certificate subject.
func (b *CertificateBuilder) Subject(name pkix.Name) *CertificateBuilder {
	b.subject = name
	return b
}

// DNSNames sets the DNS SANs.
func (b *CertificateBuilder) DNSNames(names ...string) *CertificateBuilder {
	b.dnsNames = names
	return b
}

// IPAddresses sets the IP SANs.
func (b *CertificateBuilder) IPAddresses(ips ...net.IP) *CertificateBuilder {
	b.ipAddresses = ips
	return b
}

// ValidForDays sets the validity window: NotBefore is the issuance time,
// NotAfter is issuance time plus the given number of days.
func (b *CertificateBuilder) ValidForDays(days int) *CertificateBuilder {
	b.validityDays = days
	return b
}

// CA marks this as a CA certificate with the key usages a signing root
// needs: digitalSignature, keyCertSign and cRLSign.
func (b *CertificateBuilder) CA() *CertificateBuilder {
	b.isCA = true
	b.keyUsage = x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	b.extKeyUsage = nil
	return b
}

// TLSServer configures the certificate for TLS server authentication.
func (b *CertificateBuilder) TLSServer() *CertificateBuilder {
	b.isCA = false
	b.keyUsage = x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment
	b.extKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
	return b
}

// SerialNumber sets a specific serial number instead of a random one.
func (b *CertificateBuilder) SerialNumber(sn *big.Int) *CertificateBuilder {
	b.serial = sn
	return b
}

// Build creates an x509.Certificate template from the collected values.
// The validity window starts now (UTC); backdating is not supported.
func (b *CertificateBuilder) Build() (*x509.Certificate, error) {
	if b.validityDays <= 0 {
		return nil, fmt.Errorf("validity must be a positive number of days, got %d", b.validityDays)
	}

	serial := b.serial
	if serial == nil {
		var err error
		serial, err = generateSerialNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate serial number: %w", err)
		}
	}

	notBefore := time.Now().UTC()

	return &x509.Certificate{
		SerialNumber:          serial,
		Subject:               b.subject,
		NotBefore:             notBefore,
		NotAfter:              notBefore.AddDate(0, 0, b.validityDays),
		KeyUsage:              b.keyUsage,
		ExtKeyUsage:           b.extKeyUsage,
		IsCA:                  b.isCA,
		BasicConstraintsValid: true,
		DNSNames:              b.dnsNames,
		IPAddresses:           b.ipAddresses,
		SignatureAlgorithm:    x509.SHA256WithRSA,
	}, nil
}

// generateSerialNumber generates a random 128-bit serial number. Serials
// are drawn independently per certificate; a collision under the same
// issuer is what uniqueness actually requires, and 128 random bits make
// that vanishingly unlikely.
func generateSerialNumber() (*big.Int, error) {
	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	return rand.Int(rand.Reader, serialNumberLimit)
}

// SubjectKeyID computes the subject key identifier from a public key:
// SHA-256 over the PKIX encoding, truncated to 160 bits. Because it hashes
// the key itself, the identifier stays stable if the certificate carrying
// the key is re-encoded.
func SubjectKeyID(pub crypto.PublicKey) ([]byte, error) {
	pubBytes, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	hash := sha256.Sum256(pubBytes)
	return hash[:20], nil
}
