package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestU_Default(t *testing.T) {
	cfg := Default()

	if cfg.BaseDN != "dc=testing,dc=local" {
		t.Errorf("BaseDN = %q", cfg.BaseDN)
	}
	if cfg.LDAPPort != 389 || cfg.LDAPSPort != 636 {
		t.Errorf("ports = %d/%d, want 389/636", cfg.LDAPPort, cfg.LDAPSPort)
	}
	if cfg.PeopleBase() != "ou=people,dc=testing,dc=local" {
		t.Errorf("PeopleBase() = %q", cfg.PeopleBase())
	}
	if cfg.GroupsBase() != "ou=groups,dc=testing,dc=local" {
		t.Errorf("GroupsBase() = %q", cfg.GroupsBase())
	}
}

func TestU_URL(t *testing.T) {
	cfg := Default()

	if got := cfg.URL(false); got != "ldap://localhost:389" {
		t.Errorf("URL(false) = %q", got)
	}
	if got := cfg.URL(true); got != "ldaps://localhost:636" {
		t.Errorf("URL(true) = %q", got)
	}
}

func TestF_Load_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ldap-docker.yaml")
	content := "host: ldap.dev\nldap_port: 10389\nbase_dn: dc=example,dc=org\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host != "ldap.dev" {
		t.Errorf("Host = %q, want ldap.dev", cfg.Host)
	}
	if cfg.LDAPPort != 10389 {
		t.Errorf("LDAPPort = %d, want 10389", cfg.LDAPPort)
	}
	// Untouched fields keep their defaults.
	if cfg.LDAPSPort != 636 {
		t.Errorf("LDAPSPort = %d, want 636", cfg.LDAPSPort)
	}
	if cfg.BaseDN != "dc=example,dc=org" {
		t.Errorf("BaseDN = %q", cfg.BaseDN)
	}
}

func TestF_Load_ExplicitFileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for an explicit missing file")
	}
}

func TestF_Load_EnvOverrides(t *testing.T) {
	t.Setenv("LDAP_PORT", "11389")
	t.Setenv("LDAP_BASE_DN", "dc=env,dc=local")
	t.Setenv("LDAP_ADMIN_PASSWORD", "hunter2")

	// Default-file lookup path: run from a directory without the file.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LDAPPort != 11389 {
		t.Errorf("LDAPPort = %d, want 11389", cfg.LDAPPort)
	}
	if cfg.BaseDN != "dc=env,dc=local" {
		t.Errorf("BaseDN = %q, want dc=env,dc=local", cfg.BaseDN)
	}
	if cfg.AdminPassword != "hunter2" {
		t.Errorf("AdminPassword = %q, want hunter2", cfg.AdminPassword)
	}
}

func TestF_Load_InvalidEnvPort(t *testing.T) {
	t.Setenv("LDAP_PORT", "not-a-port")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	if _, err := Load(""); err == nil {
		t.Error("Load() should reject an unparseable LDAP_PORT")
	}
}
