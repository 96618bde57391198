package pki

import "testing"

func TestU_GenerateKeyPair_ModulusSize(t *testing.T) {
	key, err := GenerateKeyPair(2048)
	if err != nil {
		t.Fatalf("GenerateKeyPair(2048) error = %v", err)
	}
	if got := key.N.BitLen(); got != 2048 {
		t.Errorf("modulus length = %d, want 2048", got)
	}
}

func TestU_GenerateKeyPair_Independent(t *testing.T) {
	a, err := GenerateKeyPair(2048)
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	b, err := GenerateKeyPair(2048)
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	if a.N.Cmp(b.N) == 0 {
		t.Error("two calls returned the same modulus")
	}
}

func TestU_GenerateKeyPair_UnsupportedSize(t *testing.T) {
	for _, bits := range []int{0, 512, 1024, 2047, 8192} {
		if _, err := GenerateKeyPair(bits); err == nil {
			t.Errorf("GenerateKeyPair(%d) should fail", bits)
		}
	}
}
