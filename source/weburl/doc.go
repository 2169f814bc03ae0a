// Package weburl validates release URLs before they are fetched.
//
// ValidateURL enforces HTTPS and refuses hosts that resolve to the local
// machine or a private network: localhost variants, .local and .internal
// domains, RFC 1918 ranges, CGNAT, link-local and IPv6 unique local
// addresses, including IPv4-mapped IPv6 forms. SafeDialContext applies the
// same address check after DNS resolution so a public name cannot rebind to a
// private address.
//
// Expand fills the {version} placeholder of a release URL template.
package weburl
