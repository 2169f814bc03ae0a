package weburl

import (
	"net/netip"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name:    "release url",
			url:     "https://raw.githubusercontent.com/schemaorg/schemaorg/main/versions.json",
			wantErr: false,
		},
		{
			name:    "http URL rejected",
			url:     "http://schema.org/version/latest/schemaorg-all-http.jsonld",
			wantErr: true,
		},
		{
			name:    "localhost rejected",
			url:     "https://localhost:8080",
			wantErr: true,
		},
		{
			name:    "127.0.0.1 rejected",
			url:     "https://127.0.0.1/path",
			wantErr: true,
		},
		{
			name:    "IPv6 loopback rejected",
			url:     "https://[::1]/path",
			wantErr: true,
		},
		{
			name:    ".internal domain rejected",
			url:     "https://mirror.internal/schemaorg.jsonld",
			wantErr: true,
		},
		{
			name:    "private IP 10.x.x.x rejected",
			url:     "https://10.0.0.1/path",
			wantErr: true,
		},
		{
			name:    "CGNAT rejected",
			url:     "https://100.64.1.1/path",
			wantErr: true,
		},
		{
			name:    "missing host",
			url:     "https:///path",
			wantErr: true,
		},
		{
			name:    "invalid URL",
			url:     "://bad",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestIsPrivate(t *testing.T) {
	tests := []struct {
		addr    string
		private bool
	}{
		{"8.8.8.8", false},
		{"185.199.108.133", false},
		{"192.168.1.1", true},
		{"172.16.5.4", true},
		{"169.254.1.1", true},
		{"::ffff:10.0.0.1", true},
		{"fd00::1", true},
		{"fe80::1", true},
		{"2606:50c0:8000::154", false},
		{"0.0.0.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := IsPrivate(netip.MustParseAddr(tt.addr)); got != tt.private {
				t.Errorf("IsPrivate(%s) = %v, want %v", tt.addr, got, tt.private)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	got := Expand("https://example.com/releases/{version}/all.jsonld", "29.0")
	if got != "https://example.com/releases/29.0/all.jsonld" {
		t.Errorf("Expand() = %s", got)
	}
	if got := Expand("https://example.com/{version}", "a/b"); got != "https://example.com/a%2Fb" {
		t.Errorf("Expand() must escape the version, got %s", got)
	}
}
