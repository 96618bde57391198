// Package config holds the tool's configuration. It is loaded once at
// process start and passed explicitly to every component that needs it;
// there is no ambient package-level state.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when --config is not
// given. A missing default file is not an error.
const DefaultFile = "ldap-docker.yaml"

// Config describes the development environment: where the LDAP server
// listens, which DNs to use, and where certificates live.
type Config struct {
	// Host is the LDAP server host.
	Host string `yaml:"host"`

	// LDAPPort and LDAPSPort are the plaintext and TLS ports.
	LDAPPort  int `yaml:"ldap_port"`
	LDAPSPort int `yaml:"ldaps_port"`

	// BaseDN is the directory suffix, e.g. dc=testing,dc=local.
	BaseDN string `yaml:"base_dn"`

	// AdminDN and AdminPassword are the directory manager credentials.
	AdminDN       string `yaml:"admin_dn"`
	AdminPassword string `yaml:"admin_password"`

	// CertsDir is where the TLS chain files are written and read.
	CertsDir string `yaml:"certs_dir"`

	// ComposeFile is the docker compose file; empty uses compose's own
	// lookup rules.
	ComposeFile string `yaml:"compose_file"`

	// Hostname is the default server certificate hostname.
	Hostname string `yaml:"hostname"`
}

// Default returns the configuration for a stock development environment.
func Default() Config {
	return Config{
		Host:          "localhost",
		LDAPPort:      389,
		LDAPSPort:     636,
		BaseDN:        "dc=testing,dc=local",
		AdminDN:       "cn=admin,dc=testing,dc=local",
		AdminPassword: "admin_password",
		CertsDir:      "certs",
		Hostname:      "ldap.testing.local",
	}
}

// Load builds the configuration: defaults, then the YAML file (the given
// path, or DefaultFile when it exists), then LDAP_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case explicit:
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overlays the LDAP_* environment variables.
func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("LDAP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LDAP_PORT %q: %w", v, err)
		}
		cfg.LDAPPort = port
	}
	if v, ok := os.LookupEnv("LDAPS_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LDAPS_PORT %q: %w", v, err)
		}
		cfg.LDAPSPort = port
	}
	if v, ok := os.LookupEnv("LDAP_BASE_DN"); ok {
		cfg.BaseDN = v
	}
	if v, ok := os.LookupEnv("LDAP_ADMIN_DN"); ok {
		cfg.AdminDN = v
	}
	if v, ok := os.LookupEnv("LDAP_ADMIN_PASSWORD"); ok {
		cfg.AdminPassword = v
	}
	return nil
}

// URL returns the server URL for the configured host and ports.
func (c Config) URL(ssl bool) string {
	if ssl {
		return fmt.Sprintf("ldaps://%s:%d", c.Host, c.LDAPSPort)
	}
	return fmt.Sprintf("ldap://%s:%d", c.Host, c.LDAPPort)
}

// PeopleBase returns the OU holding user entries.
func (c Config) PeopleBase() string {
	return "ou=people," + c.BaseDN
}

// GroupsBase returns the OU holding group entries.
func (c Config) GroupsBase() string {
	return "ou=groups," + c.BaseDN
}
