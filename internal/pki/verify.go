package pki

import (
	"crypto/x509"
	"fmt"
	"os"
)

// VerifyChain checks that the server certificate at certPath chains to the
// CA certificate at caPath and is valid for server authentication now.
func VerifyChain(caPath, certPath string) error {
	caPEM, err := os.ReadFile(caPath)
	if err != nil {
		return fmt.Errorf("failed to read CA certificate: %w", err)
	}

	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(caPEM) {
		return fmt.Errorf("no CA certificate found in %s", caPath)
	}

	cert, err := LoadCertificate(certPath)
	if err != nil {
		return err
	}

	_, err = cert.Verify(x509.VerifyOptions{
		Roots:     roots,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	})
	if err != nil {
		return fmt.Errorf("certificate chain verification failed: %w", err)
	}

	return nil
}
