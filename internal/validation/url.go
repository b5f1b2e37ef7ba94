// Package validation checks user-supplied values before they reach the API.
//
// ValidateBaseURL guards the configured server URL against SSRF-style
// targets: private and loopback ranges, link-local addresses, and cloud
// metadata endpoints. Private ranges can be allowed for local development
// with REMSFAL_ALLOW_PRIVATE (any value strconv.ParseBool accepts) or
// SetAllowPrivate(true). Metadata endpoints stay blocked either way.
package validation

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var allowPrivate atomic.Bool

// lookupIP resolves host names. Tests replace it.
var lookupIP = func(ctx context.Context, host string) ([]net.IP, error) {
	return net.DefaultResolver.LookupIP(ctx, "ip", host)
}

var privatePrefixes = mustPrefixes(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"240.0.0.0/4",
	"fc00::/7",
	"100::/64",
	"2001::/32",
	"2001:10::/28",
	"2001:db8::/32",
)

var metadataHosts = map[string]struct{}{
	"169.254.169.254":          {},
	"fd00:ec2::254":            {},
	"metadata.google.internal": {},
	"metadata":                 {},
	"instance-data":            {},
}

func init() {
	v, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("REMSFAL_ALLOW_PRIVATE")))
	allowPrivate.Store(v)
}

func mustPrefixes(cidrs ...string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		out = append(out, netip.MustParsePrefix(c))
	}
	return out
}

// SetAllowPrivate enables or disables private and localhost base URLs.
func SetAllowPrivate(enabled bool) {
	allowPrivate.Store(enabled)
}

// AllowPrivateEnabled reports whether private and localhost URLs are allowed.
func AllowPrivateEnabled() bool {
	return allowPrivate.Load()
}

// ValidateBaseURL checks that rawURL is an absolute http(s) URL whose host
// is not, and does not resolve to, a forbidden address. Host names that do
// not resolve are accepted.
func ValidateBaseURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("URL exceeds maximum length of %d characters", MaxURLLength)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("URL must contain a hostname")
	}

	if isCloudMetadata(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}
	if !allowPrivate.Load() && isLocalhost(host) {
		return fmt.Errorf("localhost URLs are not allowed (set REMSFAL_ALLOW_PRIVATE=1 or pass --allow-private)")
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return validateAddr(addr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ips, err := lookupIP(ctx, host)
	if err != nil {
		return nil
	}
	for _, ip := range ips {
		addr, ok := netip.AddrFromSlice(ip)
		if !ok {
			continue
		}
		if err := validateAddr(addr.Unmap()); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", host, addr.Unmap(), err)
		}
	}
	return nil
}

func isLocalhost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0", "::":
		return true
	}
	return strings.HasSuffix(host, ".localhost")
}

func isCloudMetadata(host string) bool {
	if _, ok := metadataHosts[host]; ok {
		return true
	}
	return strings.HasSuffix(host, ".metadata.google.internal")
}

func validateAddr(addr netip.Addr) error {
	addr = addr.Unmap()
	if isCloudMetadata(addr.String()) {
		return fmt.Errorf("cloud metadata IP address is not allowed")
	}
	if addr.IsUnspecified() {
		return fmt.Errorf("unspecified IP addresses are not allowed")
	}
	// Link-local stays blocked even for local development.
	if addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() {
		return fmt.Errorf("link-local IP addresses are not allowed")
	}
	if allowPrivate.Load() {
		return nil
	}
	if addr.IsLoopback() {
		return fmt.Errorf("loopback IP addresses are not allowed")
	}
	if addr.IsMulticast() || isPrivateAddr(addr) {
		return fmt.Errorf("private IP addresses are not allowed")
	}
	return nil
}

func isPrivateAddr(addr netip.Addr) bool {
	for _, p := range privatePrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
