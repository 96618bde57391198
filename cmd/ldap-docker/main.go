// Command ldap-docker manages an OpenLDAP Docker development environment:
// container lifecycle, development TLS certificates, and connectivity
// checks against the running directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ldapdev/ldap-docker/internal/config"
)

var version = "0.1.0"

var (
	cfgFile string
	cfg     config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ldap-docker",
	Short: "Manage the OpenLDAP development environment",
	Long: `ldap-docker is a command-line tool for the OpenLDAP Docker
development environment: it starts and stops the server containers,
generates self-signed TLS certificates, and runs connectivity and
authentication checks against the directory.

Configuration comes from ldap-docker.yaml (or --config) with LDAP_*
environment variables taking precedence.

Examples:
  # One-shot setup: docker check, certificates, server start
  ldap-docker init

  # Generate development certificates
  ldap-docker certs generate --hostname ldap.testing.local

  # Start the server and tail its logs
  ldap-docker server start
  ldap-docker server logs -f

  # Check connectivity and authentication
  ldap-docker test connection
  ldap-docker test auth --user jdoe --password password123`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file (YAML)")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(certsCmd)
	rootCmd.AddCommand(testCmd)
}
