package pki

import (
	"crypto/x509"
	"fmt"
	"strings"
)

// Defaults for a chain run, matching the CLI's defaults.
const (
	DefaultCACommonName = "Testing CA"
	DefaultHostname     = "ldap.testing.local"
	DefaultCADays       = 3650
	DefaultServerDays   = 365
)

// ChainOptions control a single run of the chain builder. Zero values fall
// back to the package defaults.
type ChainOptions struct {
	// Hostname is the server certificate common name and default DNS SAN.
	Hostname string

	// SANs are the DNS subject alternative names for the server
	// certificate. Empty means [Hostname, "localhost"].
	SANs []string

	// CACommonName is the root CA's common name.
	CACommonName string

	// CADays and ServerDays are the validity windows in days.
	CADays     int
	ServerDays int

	// KeyBits is the RSA modulus size for both key pairs.
	KeyBits int

	// Force overwrites existing files instead of refusing.
	Force bool
}

// Chain holds the artifacts of one issuance run.
type Chain struct {
	CACert     *x509.Certificate
	ServerCert *x509.Certificate
}

// ExistsError reports target files that already exist when overwrite was
// not requested. It is returned before any key material is generated, so a
// refused run has no side effects at all.
type ExistsError struct {
	Paths []string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("certificate files already exist: %s", strings.Join(e.Paths, ", "))
}

// GenerateChain runs the whole pipeline once: precondition check, CA key,
// CA certificate, persist, server key, server certificate, persist. The
// steps are strictly sequential; the leaf signer needs the CA key and
// certificate produced earlier in the same run.
//
// If any file written earlier in the run exists when a later write fails,
// it stays on disk; there is no rollback across the CA/leaf pair.
func GenerateChain(store *Store, opts ChainOptions) (*Chain, error) {
	if opts.Hostname == "" {
		opts.Hostname = DefaultHostname
	}
	if opts.CACommonName == "" {
		opts.CACommonName = DefaultCACommonName
	}
	if opts.CADays == 0 {
		opts.CADays = DefaultCADays
	}
	if opts.ServerDays == 0 {
		opts.ServerDays = DefaultServerDays
	}
	if opts.KeyBits == 0 {
		opts.KeyBits = DefaultKeyBits
	}

	if !opts.Force {
		if existing := store.Existing(); len(existing) > 0 {
			return nil, &ExistsError{Paths: existing}
		}
	}

	if err := store.Init(); err != nil {
		return nil, err
	}

	caKey, err := GenerateKeyPair(opts.KeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CA key: %w", err)
	}

	caCert, err := IssueRootCA(caKey, opts.CACommonName, opts.CADays)
	if err != nil {
		return nil, fmt.Errorf("failed to issue CA certificate: %w", err)
	}

	if err := store.SavePrivateKey(caKey, store.CAKeyPath()); err != nil {
		return nil, err
	}
	if err := store.SaveCertificate(caCert, store.CACertPath()); err != nil {
		return nil, err
	}

	serverKey, err := GenerateKeyPair(opts.KeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate server key: %w", err)
	}

	serverCert, err := IssueServerLeaf(serverKey, caCert, caKey, opts.Hostname, opts.SANs, opts.ServerDays)
	if err != nil {
		return nil, fmt.Errorf("failed to issue server certificate: %w", err)
	}

	if err := store.SavePrivateKey(serverKey, store.ServerKeyPath()); err != nil {
		return nil, err
	}
	if err := store.SaveCertificate(serverCert, store.ServerCertPath()); err != nil {
		return nil, err
	}

	return &Chain{CACert: caCert, ServerCert: serverCert}, nil
}
