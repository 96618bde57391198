package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ldapdev/ldap-docker/internal/cli"
	"github.com/ldapdev/ldap-docker/internal/compose"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage the LDAP server container",
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the LDAP server",
	RunE:  runServerStart,
}

var serverStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the LDAP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := compose.DockerAvailable(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Stopping LDAP server...")
		if err := runner().Stop(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("LDAP server stopped")
		return nil
	},
}

var serverRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the LDAP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := compose.DockerAvailable(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Restarting LDAP server...")
		if err := runner().Restart(cmd.Context()); err != nil {
			return err
		}
		waitForServer(cmd)
		return nil
	},
}

var serverDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove the LDAP server containers",
	RunE:  runServerDown,
}

var serverLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View LDAP server logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := compose.DockerAvailable(cmd.Context()); err != nil {
			return err
		}
		return runner().Logs(cmd.Context(), logsService, logsFollow, logsTail)
	},
}

var serverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check LDAP server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := compose.DockerAvailable(cmd.Context()); err != nil {
			return err
		}
		out, err := runner().Status(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

var (
	startBuild    bool
	startNoDetach bool
	downVolumes   bool
	logsFollow    bool
	logsTail      int
	logsService   string
)

func init() {
	serverStartCmd.Flags().BoolVar(&startBuild, "build", false, "Build images before starting")
	serverStartCmd.Flags().BoolVar(&startNoDetach, "no-detach", false, "Stay attached to container output")
	serverDownCmd.Flags().BoolVarP(&downVolumes, "volumes", "v", false, "Remove volumes (deletes all data)")
	serverLogsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	serverLogsCmd.Flags().IntVarP(&logsTail, "tail", "n", 100, "Number of lines to show from the end")
	serverLogsCmd.Flags().StringVar(&logsService, "service", "openldap", "Service to show logs for")

	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverStopCmd)
	serverCmd.AddCommand(serverRestartCmd)
	serverCmd.AddCommand(serverDownCmd)
	serverCmd.AddCommand(serverLogsCmd)
	serverCmd.AddCommand(serverStatusCmd)
}

func runner() compose.Runner {
	return compose.Runner{File: cfg.ComposeFile}
}

func runServerStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := compose.DockerAvailable(ctx); err != nil {
		return err
	}
	if err := ensureCertificates(false); err != nil {
		return err
	}

	fmt.Println("Starting LDAP server...")
	if err := runner().Up(ctx, !startNoDetach, startBuild); err != nil {
		return err
	}

	fmt.Println("\nLDAP server is available at:")
	fmt.Printf("  - LDAP:  %s\n", cfg.URL(false))
	fmt.Printf("  - LDAPS: %s\n", cfg.URL(true))
	fmt.Println("\nAdmin credentials:")
	fmt.Printf("  - DN:       %s\n", cfg.AdminDN)
	fmt.Printf("  - Password: %s\n", cfg.AdminPassword)

	if !startNoDetach {
		waitForServer(cmd)
	}
	return nil
}

func runServerDown(cmd *cobra.Command, args []string) error {
	if err := compose.DockerAvailable(cmd.Context()); err != nil {
		return err
	}

	if downVolumes {
		fmt.Println("WARNING: this will delete all LDAP data.")
		if !cli.Confirm(os.Stdin, "Continue?", false) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("Removing LDAP server containers...")
	if err := runner().Down(cmd.Context(), downVolumes); err != nil {
		return err
	}
	fmt.Println("Containers removed")
	return nil
}

// waitForServer gives the container a moment to come up, then reports
// whether compose sees it running. Best effort only.
func waitForServer(cmd *cobra.Command) {
	fmt.Println("\nWaiting for server to be ready...")
	time.Sleep(5 * time.Second)

	out, err := runner().Status(cmd.Context())
	if err == nil && strings.Contains(out, "ldap-server") {
		fmt.Println("Server is running")
	}
}
