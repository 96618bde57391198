package pki

import (
	"os"
	"path/filepath"
	"testing"
)

func TestF_Store_SaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	key := testKey(t)
	cert, err := IssueRootCA(key, "Test CA", 365)
	if err != nil {
		t.Fatalf("IssueRootCA() error = %v", err)
	}

	if err := store.SavePrivateKey(key, store.CAKeyPath()); err != nil {
		t.Fatalf("SavePrivateKey() error = %v", err)
	}
	if err := store.SaveCertificate(cert, store.CACertPath()); err != nil {
		t.Fatalf("SaveCertificate() error = %v", err)
	}

	loaded, err := LoadCertificate(store.CACertPath())
	if err != nil {
		t.Fatalf("LoadCertificate() error = %v", err)
	}
	if loaded.Subject.CommonName != "Test CA" {
		t.Errorf("CommonName = %q, want Test CA", loaded.Subject.CommonName)
	}
}

func TestF_Store_FileModes(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	key := testKey(t)
	cert, err := IssueRootCA(key, "Test CA", 365)
	if err != nil {
		t.Fatalf("IssueRootCA() error = %v", err)
	}

	if err := store.SavePrivateKey(key, store.CAKeyPath()); err != nil {
		t.Fatalf("SavePrivateKey() error = %v", err)
	}
	if err := store.SaveCertificate(cert, store.CACertPath()); err != nil {
		t.Fatalf("SaveCertificate() error = %v", err)
	}

	keyInfo, err := os.Stat(store.CAKeyPath())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if got := keyInfo.Mode().Perm(); got != 0600 {
		t.Errorf("key file mode = %o, want 0600", got)
	}

	certInfo, err := os.Stat(store.CACertPath())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if got := certInfo.Mode().Perm(); got != 0644 {
		t.Errorf("certificate file mode = %o, want 0644", got)
	}
}

func TestF_Store_ModePinnedOnOverwrite(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	// Pre-existing world-readable file at the key path.
	if err := os.WriteFile(store.CAKeyPath(), []byte("old"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := store.SavePrivateKey(testKey(t), store.CAKeyPath()); err != nil {
		t.Fatalf("SavePrivateKey() error = %v", err)
	}

	info, err := os.Stat(store.CAKeyPath())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if got := info.Mode().Perm(); got != 0600 {
		t.Errorf("overwritten key file mode = %o, want 0600", got)
	}
}

func TestU_Store_Existing(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if got := store.Existing(); len(got) != 0 {
		t.Errorf("Existing() = %v, want none", got)
	}

	if err := os.WriteFile(filepath.Join(dir, CACertFile), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ServerKeyFile), []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got := store.Existing()
	if len(got) != 2 {
		t.Fatalf("Existing() = %v, want 2 paths", got)
	}
	if got[0] != store.CACertPath() || got[1] != store.ServerKeyPath() {
		t.Errorf("Existing() = %v, want [ca.crt server.key] paths", got)
	}
}
