package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ldapdev/ldap-docker/internal/cli"
	"github.com/ldapdev/ldap-docker/internal/compose"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up the LDAP development environment",
	Long: `Walk through the initial setup: verify docker is available,
generate self-signed certificates if they are missing, and optionally
start the LDAP server.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Println("Initializing LDAP development environment...")

	if err := compose.DockerAvailable(ctx); err != nil {
		return err
	}
	fmt.Printf("Docker: %s\n", cli.FormatStatus("ok"))

	if err := ensureCertificates(true); err != nil {
		return err
	}

	if !cli.Confirm(os.Stdin, "\nStart the LDAP server now?", true) {
		fmt.Println("\nYou can start it later with: ldap-docker server start")
		return nil
	}

	fmt.Println("\nStarting LDAP server...")
	if err := runner().Up(ctx, true, false); err != nil {
		return err
	}
	waitForServer(cmd)

	fmt.Println("\nLDAP server is available at:")
	fmt.Printf("  - LDAP:  %s\n", cfg.URL(false))
	fmt.Printf("  - LDAPS: %s\n", cfg.URL(true))
	fmt.Println("\nUseful commands:")
	fmt.Println("  ldap-docker server logs -f     follow server logs")
	fmt.Println("  ldap-docker test connection    verify connectivity")
	fmt.Println("  ldap-docker test users         list directory users")
	fmt.Println("  ldap-docker server stop        stop the server")

	return nil
}
