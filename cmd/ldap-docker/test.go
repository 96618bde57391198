package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ldapdev/ldap-docker/internal/config"
	"github.com/ldapdev/ldap-docker/pkg/directory"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test LDAP server connectivity and queries",
}

var testConnectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Test basic connection to the LDAP server",
	RunE:  runTestConnection,
}

var testAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Test authentication and show the user's directory entry",
	RunE:  runTestAuth,
}

var testUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all users in the directory",
	RunE:  runTestUsers,
}

var (
	testHost     string
	testPort     int
	testSSL      bool
	testUser     string
	testPassword string
)

func init() {
	for _, c := range []*cobra.Command{testConnectionCmd, testAuthCmd, testUsersCmd} {
		c.Flags().StringVar(&testHost, "host", "", "LDAP server host (default: configured host)")
		c.Flags().IntVar(&testPort, "port", 0, "LDAP server port (default: configured port)")
		c.Flags().BoolVar(&testSSL, "ssl", false, "Use LDAPS instead of LDAP")
	}
	testAuthCmd.Flags().StringVarP(&testUser, "user", "u", "jdoe", "Username to authenticate")
	testAuthCmd.Flags().StringVarP(&testPassword, "password", "p", "password123", "Password")

	testCmd.AddCommand(testConnectionCmd)
	testCmd.AddCommand(testAuthCmd)
	testCmd.AddCommand(testUsersCmd)
}

// testConfig returns the configuration with the test flags applied on top.
func testConfig() config.Config {
	c := cfg
	if testHost != "" {
		c.Host = testHost
	}
	if testPort != 0 {
		if testSSL {
			c.LDAPSPort = testPort
		} else {
			c.LDAPPort = testPort
		}
	}
	return c
}

// directoryClient builds a client for the effective test configuration.
func directoryClient() *directory.Client {
	c := testConfig()
	return directory.New(directory.Config{
		URL:           c.URL(testSSL),
		BaseDN:        c.BaseDN,
		AdminDN:       c.AdminDN,
		AdminPassword: c.AdminPassword,
		// The dev server presents the self-signed chain this tool issues.
		InsecureSkipVerify: testSSL,
	})
}

func runTestConnection(cmd *cobra.Command, args []string) error {
	client := directoryClient()

	fmt.Printf("Testing connection to %s...\n", testConfig().URL(testSSL))
	info, err := client.Ping()
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Println("Successfully connected to the LDAP server")
	fmt.Printf("  Vendor:  %s\n", orUnknown(info.VendorName))
	fmt.Printf("  Version: %s\n", orUnknown(info.VendorVersion))
	return nil
}

func runTestAuth(cmd *cobra.Command, args []string) error {
	client := directoryClient()

	fmt.Printf("Authenticating %s against %s...\n", testUser, testConfig().URL(testSSL))
	if err := client.Authenticate(testUser, testPassword); err != nil {
		return err
	}
	fmt.Println("Authentication successful")

	user, err := client.UserInfo(testUser)
	if err != nil {
		return err
	}
	printUser(*user)

	groups, err := client.UserGroups(testUser)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Println("User is not a member of any groups")
		return nil
	}
	fmt.Printf("User belongs to %d group(s):\n", len(groups))
	for _, g := range groups {
		fmt.Printf("  - %s\n", g)
	}
	return nil
}

func runTestUsers(cmd *cobra.Command, args []string) error {
	users, err := directoryClient().ListUsers()
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	fmt.Printf("Found %d user(s):\n", len(users))
	for _, u := range users {
		fmt.Printf("  - %-12s %-20s (%s)\n", u.Username, u.FullName, u.Email)
	}
	return nil
}

func printUser(u directory.User) {
	fmt.Println("\nUser information:")
	fmt.Printf("  Username:   %s\n", u.Username)
	fmt.Printf("  Full Name:  %s\n", u.FullName)
	fmt.Printf("  First Name: %s\n", u.FirstName)
	fmt.Printf("  Last Name:  %s\n", u.LastName)
	fmt.Printf("  Email:      %s\n", u.Email)
	fmt.Printf("  UID Number: %d\n", u.UIDNumber)
	fmt.Printf("  GID Number: %d\n", u.GIDNumber)
	fmt.Printf("  DN:         %s\n", u.DN)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
