package pki

import (
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"testing"
)

func publicKeyBits(cert *x509.Certificate) (int, error) {
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return 0, fmt.Errorf("not an RSA public key: %T", cert.PublicKey)
	}
	return pub.N.BitLen(), nil
}

func TestF_GenerateChain_EndToEnd(t *testing.T) {
	store := NewStore(t.TempDir())

	chain, err := GenerateChain(store, ChainOptions{
		Hostname:     "test.example.com",
		SANs:         []string{"test.example.com", "localhost", "test.local"},
		CACommonName: "Test CA",
		CADays:       365,
		ServerDays:   365,
		KeyBits:      2048,
	})
	if err != nil {
		t.Fatalf("GenerateChain() error = %v", err)
	}

	if chain.ServerCert.Subject.CommonName != "test.example.com" {
		t.Errorf("leaf CN = %q, want test.example.com", chain.ServerCert.Subject.CommonName)
	}
	if chain.ServerCert.Issuer.String() != chain.CACert.Subject.String() {
		t.Errorf("leaf issuer %q != CA subject %q", chain.ServerCert.Issuer, chain.CACert.Subject)
	}
	if !chain.CACert.IsCA || chain.ServerCert.IsCA {
		t.Error("basic constraints flags wrong on chain")
	}

	for _, p := range store.Paths() {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected file %s: %v", p, err)
		}
	}

	if err := VerifyChain(store.CACertPath(), store.ServerCertPath()); err != nil {
		t.Errorf("VerifyChain() error = %v", err)
	}
}

func TestF_GenerateChain_KeySizePropagation(t *testing.T) {
	store := NewStore(t.TempDir())

	chain, err := GenerateChain(store, ChainOptions{KeyBits: 2048})
	if err != nil {
		t.Fatalf("GenerateChain() error = %v", err)
	}

	pub, err := publicKeyBits(chain.ServerCert)
	if err != nil {
		t.Fatalf("publicKeyBits() error = %v", err)
	}
	if pub != 2048 {
		t.Errorf("leaf public key modulus = %d, want 2048", pub)
	}
}

func TestF_GenerateChain_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if _, err := GenerateChain(store, ChainOptions{KeyBits: 2048}); err != nil {
		t.Fatalf("GenerateChain() error = %v", err)
	}

	before := make(map[string][]byte)
	for _, p := range store.Paths() {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", p, err)
		}
		before[p] = data
	}

	_, err := GenerateChain(store, ChainOptions{KeyBits: 2048})
	var existsErr *ExistsError
	if !errors.As(err, &existsErr) {
		t.Fatalf("GenerateChain() error = %v, want *ExistsError", err)
	}
	if len(existsErr.Paths) != 4 {
		t.Errorf("ExistsError.Paths = %v, want all four files", existsErr.Paths)
	}

	// Refusal must leave every file byte-for-byte unchanged.
	for _, p := range store.Paths() {
		after, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", p, err)
		}
		if string(after) != string(before[p]) {
			t.Errorf("file %s changed by a refused run", p)
		}
	}
}

func TestF_GenerateChain_Force(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := GenerateChain(store, ChainOptions{KeyBits: 2048})
	if err != nil {
		t.Fatalf("GenerateChain() error = %v", err)
	}

	second, err := GenerateChain(store, ChainOptions{KeyBits: 2048, Force: true})
	if err != nil {
		t.Fatalf("GenerateChain(force) error = %v", err)
	}

	if first.CACert.SerialNumber.Cmp(second.CACert.SerialNumber) == 0 {
		t.Error("forced run did not reissue the CA certificate")
	}

	onDisk, err := LoadCertificate(store.CACertPath())
	if err != nil {
		t.Fatalf("LoadCertificate() error = %v", err)
	}
	if onDisk.SerialNumber.Cmp(second.CACert.SerialNumber) != 0 {
		t.Error("ca.crt on disk is not from the forced run")
	}
}

func TestU_GenerateChain_Defaults(t *testing.T) {
	store := NewStore(t.TempDir())

	chain, err := GenerateChain(store, ChainOptions{KeyBits: 2048})
	if err != nil {
		t.Fatalf("GenerateChain() error = %v", err)
	}

	if chain.CACert.Subject.CommonName != DefaultCACommonName {
		t.Errorf("CA CN = %q, want %q", chain.CACert.Subject.CommonName, DefaultCACommonName)
	}
	if chain.ServerCert.Subject.CommonName != DefaultHostname {
		t.Errorf("leaf CN = %q, want %q", chain.ServerCert.Subject.CommonName, DefaultHostname)
	}
	if len(chain.ServerCert.DNSNames) != 2 || chain.ServerCert.DNSNames[1] != "localhost" {
		t.Errorf("default DNS SANs = %v", chain.ServerCert.DNSNames)
	}
}
