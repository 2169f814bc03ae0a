package weburl

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// ErrBlocked is returned for URLs and addresses that may not be fetched.
var ErrBlocked = errors.New("url blocked")

// VersionPlaceholder marks where Expand substitutes the release version.
const VersionPlaceholder = "{version}"

var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("fc00::/7"),      // IPv6 unique local
	netip.MustParsePrefix("fe80::/10"),     // IPv6 link-local
}

// ValidateURL checks that rawURL is an HTTPS URL on a public host.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" {
		return fmt.Errorf("%w: only HTTPS URLs are allowed", ErrBlocked)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrBlocked)
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: localhost URLs are not allowed", ErrBlocked)
	}
	if strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("%w: local domain URLs are not allowed", ErrBlocked)
	}
	if addr, err := netip.ParseAddr(host); err == nil && IsPrivate(addr) {
		return fmt.Errorf("%w: private address %s", ErrBlocked, addr)
	}
	return nil
}

// IsPrivate reports whether addr is loopback, private, link-local or in a
// reserved range.
func IsPrivate(addr netip.Addr) bool {
	addr = addr.Unmap()
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsUnspecified() {
		return true
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// SafeDialContext wraps dialer so that connections are only made to public
// addresses, checked after DNS resolution.
func SafeDialContext(dialer *net.Dialer) func(ctx context.Context, network, address string) (net.Conn, error) {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(address)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}

		addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		if err != nil {
			return nil, fmt.Errorf("DNS lookup failed: %w", err)
		}
		for _, a := range addrs {
			if IsPrivate(a) {
				return nil, fmt.Errorf("%w: %s resolves to private address %s", ErrBlocked, host, a)
			}
		}

		var lastErr error
		for _, a := range addrs {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(a.Unmap().String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("no addresses for %s", host)
		}
		return nil, lastErr
	}
}

// Expand substitutes version into every placeholder of template, escaping it
// as a path segment.
func Expand(template, version string) string {
	return strings.ReplaceAll(template, VersionPlaceholder, url.PathEscape(version))
}
