package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ldapdev/ldap-docker/internal/cli"
	"github.com/ldapdev/ldap-docker/internal/pki"
)

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Manage SSL/TLS certificates",
}

var certsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate self-signed SSL certificates for development",
	Long: `Generate a self-signed CA and a server certificate signed by it.

The output directory receives four files:
  ca.key       CA private key (owner-only permissions)
  ca.crt       CA certificate
  server.key   Server private key (owner-only permissions)
  server.crt   Server certificate

Existing files are never overwritten unless --force is given; a refused
run generates nothing, not even a partial CA.

These certificates are for DEVELOPMENT ONLY: the private keys are written
unencrypted.

Examples:
  # Defaults: 4096-bit keys, hostname from configuration
  ldap-docker certs generate

  # Custom hostname with extra SANs
  ldap-docker certs generate --hostname ldap.example.test \
    --san directory.example.test --san ldap.local`,
	RunE: runCertsGenerate,
}

var certsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify SSL certificates",
	RunE:  runCertsCheck,
}

var (
	certsOutputDir  string
	certsHostname   string
	certsSANs       []string
	certsForce      bool
	certsCADays     int
	certsServerDays int
	certsCACN       string
	certsKeyBits    int
)

func init() {
	flags := certsGenerateCmd.Flags()
	flags.StringVarP(&certsOutputDir, "output-dir", "d", "", "Output directory (default: configured certs dir)")
	flags.StringVar(&certsHostname, "hostname", "", "Server hostname (default: configured hostname)")
	flags.StringArrayVar(&certsSANs, "san", nil, "Additional Subject Alternative Name (repeatable)")
	flags.BoolVar(&certsForce, "force", false, "Overwrite existing certificates")
	flags.IntVar(&certsCADays, "ca-days", pki.DefaultCADays, "CA certificate validity in days")
	flags.IntVar(&certsServerDays, "server-days", pki.DefaultServerDays, "Server certificate validity in days")
	flags.StringVar(&certsCACN, "ca-cn", pki.DefaultCACommonName, "CA common name")
	flags.IntVar(&certsKeyBits, "key-size", pki.DefaultKeyBits, "RSA key size in bits")

	certsCmd.AddCommand(certsGenerateCmd)
	certsCmd.AddCommand(certsCheckCmd)
}

func runCertsGenerate(cmd *cobra.Command, args []string) error {
	dir := certsOutputDir
	if dir == "" {
		dir = cfg.CertsDir
	}
	hostname := certsHostname
	if hostname == "" {
		hostname = cfg.Hostname
	}

	// The defaults always apply; --san entries are merged in after them.
	sans := append([]string{hostname, "localhost"}, certsSANs...)

	fmt.Printf("Generating certificates for the LDAP server...\n")
	fmt.Printf("  Hostname:  %s\n", hostname)
	fmt.Printf("  Directory: %s\n", dir)

	return generateChain(pki.NewStore(dir), pki.ChainOptions{
		Hostname:     hostname,
		SANs:         sans,
		CACommonName: certsCACN,
		CADays:       certsCADays,
		ServerDays:   certsServerDays,
		KeyBits:      certsKeyBits,
		Force:        certsForce,
	})
}

// generateChain runs the issuance pipeline and renders the outcome. It is
// shared by 'certs generate', 'init' and the pre-start certificate check.
func generateChain(store *pki.Store, opts pki.ChainOptions) error {
	chain, err := pki.GenerateChain(store, opts)
	if err != nil {
		var existsErr *pki.ExistsError
		if errors.As(err, &existsErr) {
			fmt.Fprintln(os.Stderr, "The following certificate files already exist:")
			for _, p := range existsErr.Paths {
				fmt.Fprintf(os.Stderr, "  - %s\n", p)
			}
			fmt.Fprintln(os.Stderr, "\nUse --force to overwrite them.")
		}
		return err
	}

	fmt.Printf("\nCertificates generated successfully!\n")
	fmt.Printf("  CA Certificate:     %s\n", store.CACertPath())
	fmt.Printf("  CA Private Key:     %s (keep secure)\n", store.CAKeyPath())
	fmt.Printf("  Server Certificate: %s\n", store.ServerCertPath())
	fmt.Printf("  Server Private Key: %s (keep secure)\n", store.ServerKeyPath())
	fmt.Printf("  Server Subject:     %s\n", chain.ServerCert.Subject.String())
	fmt.Printf("  Valid Until:        %s\n", chain.ServerCert.NotAfter.Format("2006-01-02 15:04:05"))
	fmt.Printf("\nNote: these certificates are for DEVELOPMENT ONLY.\n")

	return nil
}

func runCertsCheck(cmd *cobra.Command, args []string) error {
	store := pki.NewStore(cfg.CertsDir)

	files := []struct {
		path string
		desc string
	}{
		{store.CACertPath(), "CA Certificate"},
		{store.CAKeyPath(), "CA Private Key"},
		{store.ServerCertPath(), "Server Certificate"},
		{store.ServerKeyPath(), "Server Private Key"},
	}

	fmt.Println("Checking SSL certificates...")
	allPresent := true
	for _, f := range files {
		info, err := os.Stat(f.path)
		if err != nil {
			fmt.Printf("  %-18s %s (%s)\n", f.desc+":", f.path, cli.FormatStatus("missing"))
			allPresent = false
			continue
		}
		fmt.Printf("  %-18s %s (%d bytes, %s)\n", f.desc+":", f.path, info.Size(), cli.FormatStatus("ok"))
	}

	if !allPresent {
		return fmt.Errorf("some certificate files are missing - run 'ldap-docker certs generate'")
	}

	if err := pki.VerifyChain(store.CACertPath(), store.ServerCertPath()); err != nil {
		return fmt.Errorf("certificate chain is %s: %w", cli.FormatStatus("invalid"), err)
	}

	cert, err := pki.LoadCertificate(store.ServerCertPath())
	if err != nil {
		return err
	}

	fmt.Printf("\nCertificate chain is %s\n", cli.FormatStatus("valid"))
	fmt.Printf("  Subject:    %s\n", cert.Subject.String())
	fmt.Printf("  Issuer:     %s\n", cert.Issuer.String())
	fmt.Printf("  DNS SANs:   %v\n", cert.DNSNames)
	fmt.Printf("  Not After:  %s\n", cert.NotAfter.Format("2006-01-02 15:04:05"))

	return nil
}

// ensureCertificates reports missing certificate files. When interactive,
// it offers to generate a default chain on the spot; otherwise it prints a
// hint and leaves the decision to the user.
func ensureCertificates(interactive bool) error {
	missing := cli.MissingCertFiles(cfg.CertsDir)
	if len(missing) == 0 {
		return nil
	}

	fmt.Println("Missing SSL certificate files:")
	for _, f := range missing {
		fmt.Printf("  - %s\n", f)
	}

	if !interactive || !cli.Confirm(os.Stdin, "\nGenerate self-signed certificates now?", true) {
		fmt.Println("\nYou can generate them later with: ldap-docker certs generate")
		return nil
	}

	return generateChain(pki.NewStore(cfg.CertsDir), pki.ChainOptions{Hostname: cfg.Hostname})
}
