// Package pki implements the development certificate chain builder: an RSA
// key generator, a self-signed root CA builder, a CA-signed TLS server
// certificate builder, and PEM persistence for the results.
//
// The chain it produces is strictly two levels: one root CA and one server
// leaf, intended for local TLS testing only. Keys are written unencrypted.
package pki

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

// DefaultKeyBits is the RSA modulus size used when the caller does not ask
// for a specific one.
const DefaultKeyBits = 4096

// GenerateKeyPair generates a fresh RSA key pair with the given modulus
// size. Each call produces an independent key; nothing is cached or reused.
//
// Supported sizes are 2048, 3072 and 4096 bits. Smaller sizes are useful
// for fast issuance in tests.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	switch bits {
	case 2048, 3072, 4096:
	default:
		return nil, fmt.Errorf("unsupported RSA key size %d (supported: 2048, 3072, 4096)", bits)
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	return key, nil
}
