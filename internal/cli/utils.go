// Package cli holds helpers shared by the front-end commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ldapdev/ldap-docker/internal/pki"
)

// RequiredCertFiles are the files the LDAP server needs to serve TLS. The
// CA key is deliberately not required: it is only needed to issue, and the
// user may have deleted it after generation.
var RequiredCertFiles = []string{pki.CACertFile, pki.ServerCertFile, pki.ServerKeyFile}

// MissingCertFiles returns the required certificate files absent from dir.
func MissingCertFiles(dir string) []string {
	var missing []string
	for _, name := range RequiredCertFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, filepath.Join(dir, name))
		}
	}
	return missing
}

// Confirm asks a yes/no question on the given reader and returns the
// answer, falling back to def on empty input or read errors.
func Confirm(r io.Reader, prompt string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Printf("%s [%s]: ", prompt, hint)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return def
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
