package network

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP_BehindTrustedProxy(t *testing.T) {
	if err := SetTrustedProxies([]string{"10.0.0.0/8", "192.0.2.50"}); err != nil {
		t.Fatalf("SetTrustedProxies() error = %v", err)
	}
	t.Cleanup(func() { _ = SetTrustedProxies(nil) })

	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "nearest untrusted hop wins", xff: "198.51.100.1, 203.0.113.9, 10.0.0.2", remoteAddr: "10.0.0.1:5000", want: "203.0.113.9"},
		{name: "spoofed leftmost entry is ignored", xff: "1.1.1.1, 203.0.113.9", remoteAddr: "10.0.0.1:5000", want: "203.0.113.9"},
		{name: "forwarded skips unknown", xff: "198.51.100.4, unknown", remoteAddr: "10.0.0.1:5000", want: "198.51.100.4"},
		{name: "forwarded entry with port", xff: "198.51.100.4:6000", remoteAddr: "10.0.0.1:5000", want: "198.51.100.4"},
		{name: "single trusted address", xff: "198.51.100.8", remoteAddr: "192.0.2.50:80", want: "198.51.100.8"},
		{name: "all hops trusted uses leftmost", xff: "10.1.1.1, 10.2.2.2", remoteAddr: "10.0.0.1:5000", want: "10.1.1.1"},
		{name: "real ip when no forwarded", realIP: " 192.0.2.7 ", remoteAddr: "10.0.0.1:5000", want: "192.0.2.7"},
		{name: "garbage headers fall back to peer", xff: "nope", realIP: "also-nope", remoteAddr: "10.0.0.1:443", want: "10.0.0.1"},
		{name: "ipv6 forwarded is canonicalized", xff: "2001:DB8:0:0::1", remoteAddr: "10.0.0.1:1", want: "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/contact", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientIP_UntrustedPeerIgnoresHeaders(t *testing.T) {
	_ = SetTrustedProxies(nil)

	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "forwarded header is not believed", xff: "203.0.113.9", remoteAddr: "198.51.100.77:5000", want: "198.51.100.77"},
		{name: "real ip header is not believed", realIP: "203.0.113.9", remoteAddr: "198.51.100.77:5000", want: "198.51.100.77"},
		{name: "ipv6 remote with port", remoteAddr: "[2001:db8::1]:8080", want: "2001:db8::1"},
		{name: "remote without port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{name: "nothing usable", remoteAddr: "pipe", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/contact", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseProxies(t *testing.T) {
	nets, err := ParseProxies([]string{" 10.0.0.0/8 ", "", "192.0.2.1", "::1"})
	if err != nil {
		t.Fatalf("ParseProxies() error = %v", err)
	}
	if len(nets) != 3 {
		t.Fatalf("got %d networks, want 3", len(nets))
	}
	if got := nets[1].String(); got != "192.0.2.1/32" {
		t.Errorf("single address = %s, want 192.0.2.1/32", got)
	}

	for _, bad := range []string{"10.0.0.0/33", "proxy.internal"} {
		if _, err := ParseProxies([]string{bad}); err == nil {
			t.Errorf("ParseProxies(%q) error = nil, want error", bad)
		}
	}
}
