// Package directory provides a small LDAP client for the development
// directory: bind-based authentication and the user and group lookups the
// CLI and the examples need. It deliberately exposes only the two
// capabilities the tooling consumes, bind and search.
package directory

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// DefaultTimeout bounds the dial when the caller does not set one.
const DefaultTimeout = 10 * time.Second

// Config describes how to reach and query one LDAP server.
type Config struct {
	// URL is an ldap:// or ldaps:// URL.
	URL string

	// BaseDN is the directory suffix. Users live under ou=people and
	// groups under ou=groups beneath it.
	BaseDN string

	// AdminDN and AdminPassword are used for searches; plain
	// authentication binds use the target user's own DN.
	AdminDN       string
	AdminPassword string

	// InsecureSkipVerify skips TLS certificate verification. Useful when
	// the server presents a self-signed development certificate and the
	// CA file is not in the system trust store.
	InsecureSkipVerify bool

	// Timeout bounds the network dial. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client talks to one LDAP server.
type Client struct {
	cfg Config
}

// User is a directory user entry.
type User struct {
	Username  string
	FullName  string
	FirstName string
	LastName  string
	Email     string
	UIDNumber int
	GIDNumber int
	DN        string
}

// ServerInfo is the vendor information advertised in the root DSE.
type ServerInfo struct {
	VendorName    string
	VendorVersion string
}

// New creates a client for the given server.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{cfg: cfg}
}

// UserDN returns the DN for a username under ou=people.
func (c *Client) UserDN(username string) string {
	return fmt.Sprintf("uid=%s,%s", ldap.EscapeDN(username), c.peopleBase())
}

func (c *Client) peopleBase() string {
	return "ou=people," + c.cfg.BaseDN
}

func (c *Client) groupsBase() string {
	return "ou=groups," + c.cfg.BaseDN
}

// connect dials the server, negotiating TLS for ldaps:// URLs.
func (c *Client) connect() (*ldap.Conn, error) {
	var opts []ldap.DialOpt
	opts = append(opts, ldap.DialWithDialer(&net.Dialer{Timeout: c.cfg.Timeout}))
	if strings.HasPrefix(c.cfg.URL, "ldaps://") {
		opts = append(opts, ldap.DialWithTLSConfig(&tls.Config{
			InsecureSkipVerify: c.cfg.InsecureSkipVerify, //nolint:gosec // dev tool, self-signed certs are the point
		}))
	}

	conn, err := ldap.DialURL(c.cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.cfg.URL, err)
	}
	return conn, nil
}

// connectAdmin dials and binds with the admin credentials.
func (c *Client) connectAdmin() (*ldap.Conn, error) {
	conn, err := c.connect()
	if err != nil {
		return nil, err
	}
	if err := conn.Bind(c.cfg.AdminDN, c.cfg.AdminPassword); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("admin bind as %s failed: %w", c.cfg.AdminDN, err)
	}
	return conn, nil
}

// Ping connects anonymously and reads the root DSE.
func (c *Client) Ping() (*ServerInfo, error) {
	conn, err := c.connect()
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.UnauthenticatedBind(""); err != nil {
		return nil, fmt.Errorf("anonymous bind failed: %w", err)
	}

	req := ldap.NewSearchRequest(
		"", ldap.ScopeBaseObject, ldap.NeverDerefAliases, 0, 0, false,
		"(objectClass=*)",
		[]string{"vendorName", "vendorVersion"},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("root DSE read failed: %w", err)
	}

	info := &ServerInfo{}
	if len(res.Entries) > 0 {
		info.VendorName = res.Entries[0].GetAttributeValue("vendorName")
		info.VendorVersion = res.Entries[0].GetAttributeValue("vendorVersion")
	}
	return info, nil
}

// Authenticate binds as the user to verify the password. An empty password
// is rejected here: LDAP would treat it as an unauthenticated bind and
// report success without checking anything.
func (c *Client) Authenticate(username, password string) error {
	if password == "" {
		return fmt.Errorf("empty password")
	}

	conn, err := c.connect()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Bind(c.UserDN(username), password); err != nil {
		return fmt.Errorf("authentication failed for %s: %w", username, err)
	}
	return nil
}

// UserInfo looks up a user entry by uid.
func (c *Client) UserInfo(username string) (*User, error) {
	conn, err := c.connectAdmin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	req := ldap.NewSearchRequest(
		c.peopleBase(), ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 2, 0, false,
		fmt.Sprintf("(uid=%s)", ldap.EscapeFilter(username)),
		userAttributes,
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("user search failed: %w", err)
	}
	if len(res.Entries) == 0 {
		return nil, fmt.Errorf("user %q not found under %s", username, c.peopleBase())
	}

	user := userFromEntry(res.Entries[0])
	return &user, nil
}

// UserGroups returns the names of the groups the user is a member of.
func (c *Client) UserGroups(username string) ([]string, error) {
	conn, err := c.connectAdmin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	req := ldap.NewSearchRequest(
		c.groupsBase(), ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		fmt.Sprintf("(member=%s)", ldap.EscapeFilter(c.UserDN(username))),
		[]string{"cn"},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("group search failed: %w", err)
	}

	var groups []string
	for _, entry := range res.Entries {
		groups = append(groups, entry.GetAttributeValue("cn"))
	}
	return groups, nil
}

// ListUsers returns every inetOrgPerson under ou=people.
func (c *Client) ListUsers() ([]User, error) {
	conn, err := c.connectAdmin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	req := ldap.NewSearchRequest(
		c.peopleBase(), ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		"(objectClass=inetOrgPerson)",
		userAttributes,
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("user search failed: %w", err)
	}

	users := make([]User, 0, len(res.Entries))
	for _, entry := range res.Entries {
		users = append(users, userFromEntry(entry))
	}
	return users, nil
}

var userAttributes = []string{"uid", "cn", "sn", "givenName", "mail", "uidNumber", "gidNumber"}

// userFromEntry maps the attributes this tool cares about. Missing numeric
// attributes map to zero.
func userFromEntry(entry *ldap.Entry) User {
	return User{
		Username:  entry.GetAttributeValue("uid"),
		FullName:  entry.GetAttributeValue("cn"),
		FirstName: entry.GetAttributeValue("givenName"),
		LastName:  entry.GetAttributeValue("sn"),
		Email:     entry.GetAttributeValue("mail"),
		UIDNumber: atoiOrZero(entry.GetAttributeValue("uidNumber")),
		GIDNumber: atoiOrZero(entry.GetAttributeValue("gidNumber")),
		DN:        entry.DN,
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
