package pki

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// File names of the four chain artifacts inside a store directory.
const (
	CAKeyFile      = "ca.key"
	CACertFile     = "ca.crt"
	ServerKeyFile  = "server.key"
	ServerCertFile = "server.crt"
)

// Store manages certificate chain storage on the filesystem:
//
//	{dir}/
//	  ├── ca.key       # CA private key (PEM, unencrypted, 0600)
//	  ├── ca.crt       # CA certificate (PEM, 0644)
//	  ├── server.key   # Server private key (PEM, unencrypted, 0600)
//	  └── server.crt   # Server certificate (PEM, 0644)
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// CAKeyPath returns the path to the CA private key.
func (s *Store) CAKeyPath() string {
	return filepath.Join(s.dir, CAKeyFile)
}

// CACertPath returns the path to the CA certificate.
func (s *Store) CACertPath() string {
	return filepath.Join(s.dir, CACertFile)
}

// ServerKeyPath returns the path to the server private key.
func (s *Store) ServerKeyPath() string {
	return filepath.Join(s.dir, ServerKeyFile)
}

// ServerCertPath returns the path to the server certificate.
func (s *Store) ServerCertPath() string {
	return filepath.Join(s.dir, ServerCertFile)
}

// Paths returns all four target paths in issuance order.
func (s *Store) Paths() []string {
	return []string{s.CAKeyPath(), s.CACertPath(), s.ServerKeyPath(), s.ServerCertPath()}
}

// Existing returns the target paths that already exist on disk.
func (s *Store) Existing() []string {
	var existing []string
	for _, p := range s.Paths() {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	return existing
}

// Init creates the store directory if it does not exist.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}
	return nil
}

// SavePrivateKey writes an unencrypted PKCS#8 PEM private key with
// owner-only permissions. An existing file at the path is overwritten.
func (s *Store) SavePrivateKey(key *rsa.PrivateKey, path string) error {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("failed to marshal private key: %w", err)
	}

	block := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: der,
	}

	if err := writePEM(path, block, 0600); err != nil {
		return fmt.Errorf("failed to write private key %s: %w", path, err)
	}
	return nil
}

// SaveCertificate writes a world-readable PEM certificate. An existing file
// at the path is overwritten.
func (s *Store) SaveCertificate(cert *x509.Certificate, path string) error {
	block := &pem.Block{
		Type:  "CERTIFICATE",
		Bytes: cert.Raw,
	}

	if err := writePEM(path, block, 0644); err != nil {
		return fmt.Errorf("failed to write certificate %s: %w", path, err)
	}
	return nil
}

// LoadCertificate loads a certificate from a PEM file.
func LoadCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("no certificate found in %s", path)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return cert, nil
}

// writePEM writes a single PEM block, then pins the mode: O_TRUNC on a
// pre-existing file keeps its old permissions, and the key files must end
// up owner-only even when overwriting.
func writePEM(path string, block *pem.Block, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if err := pem.Encode(f, block); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Chmod(path, mode)
}
