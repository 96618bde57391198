package pki

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"net"
)

// IssueRootCA issues a self-signed root CA certificate for the given key
// pair. The subject uses the fixed development template with the supplied
// common name, and the issuer equals the subject.
//
// The returned certificate is self-verifiable: its signature checks out
// against its own embedded public key.
func IssueRootCA(key *rsa.PrivateKey, commonName string, days int) (*x509.Certificate, error) {
	template, err := NewCertificateBuilder().
		Subject(Subject(commonName)).
		CA().
		ValidForDays(days).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build CA template: %w", err)
	}

	skid, err := SubjectKeyID(key.Public())
	if err != nil {
		return nil, fmt.Errorf("failed to compute subject key ID: %w", err)
	}
	template.SubjectKeyId = skid

	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	if err != nil {
		return nil, fmt.Errorf("failed to create CA certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CA certificate: %w", err)
	}

	return cert, nil
}

// IssueServerLeaf issues a TLS server certificate signed by the CA.
//
// The issuer is taken from caCert's subject, so chaining stays correct even
// if the CA certificate were itself reissued. When sans is empty it
// defaults to [hostname, "localhost"]; the IPv4 loopback address 127.0.0.1
// is always added as an IP SAN regardless of caller input, so the
// certificate works for local-loopback TLS out of the box.
//
// The supplied CA private key must match caCert's public key; the mismatch
// is detected before signing rather than producing a broken chain.
func IssueServerLeaf(key *rsa.PrivateKey, caCert *x509.Certificate, caKey *rsa.PrivateKey, hostname string, sans []string, days int) (*x509.Certificate, error) {
	caPub, ok := caCert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("CA certificate does not carry an RSA public key (%T)", caCert.PublicKey)
	}
	if !caPub.Equal(caKey.Public()) {
		return nil, fmt.Errorf("CA private key does not match the CA certificate's public key")
	}

	if len(sans) == 0 {
		sans = []string{hostname, "localhost"}
	}

	template, err := NewCertificateBuilder().
		Subject(Subject(hostname)).
		TLSServer().
		DNSNames(sans...).
		IPAddresses(net.IPv4(127, 0, 0, 1)).
		ValidForDays(days).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build server template: %w", err)
	}

	skid, err := SubjectKeyID(key.Public())
	if err != nil {
		return nil, fmt.Errorf("failed to compute subject key ID: %w", err)
	}
	template.SubjectKeyId = skid

	// The authority key ID is derived from the CA public key, not the CA
	// certificate bytes, and therefore equals the CA's own subject key ID.
	akid, err := SubjectKeyID(caCert.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to compute authority key ID: %w", err)
	}
	template.AuthorityKeyId = akid

	der, err := x509.CreateCertificate(rand.Reader, template, caCert, key.Public(), caKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create server certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server certificate: %w", err)
	}

	return cert, nil
}
