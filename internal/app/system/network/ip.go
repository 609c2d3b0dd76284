// Package network resolves who sent a request. The public forms key their
// per-submitter rate limit on ClientIP, and the activity log records it.
package network

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	trusted []*net.IPNet
)

// ParseProxies turns CIDRs ("10.0.0.0/8") and single addresses
// ("192.0.2.10") into networks. Blank entries are skipped.
func ParseProxies(entries []string) ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			_, n, err := net.ParseCIDR(e)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
			}
			out = append(out, n)
			continue
		}
		ip := net.ParseIP(e)
		if ip == nil {
			return nil, fmt.Errorf("trusted proxy %q: not an IP address or CIDR", e)
		}
		bits := 8 * net.IPv6len
		if v4 := ip.To4(); v4 != nil {
			ip, bits = v4, 8*net.IPv4len
		}
		out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return out, nil
}

// SetTrustedProxies replaces the proxies whose forwarding headers ClientIP
// believes. An empty list trusts no one.
func SetTrustedProxies(entries []string) error {
	nets, err := ParseProxies(entries)
	if err != nil {
		return err
	}
	mu.Lock()
	trusted = nets
	mu.Unlock()
	return nil
}

func isTrusted(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	mu.RLock()
	defer mu.RUnlock()
	for _, n := range trusted {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}

// ClientIP returns the canonical address of the caller. Forwarding headers
// count only when the peer is a trusted proxy; X-Forwarded-For is then read
// right to left and the first hop that is not itself trusted wins. If every
// hop is trusted the leftmost one is used, then X-Real-IP. The result is ""
// only when nothing usable was found.
func ClientIP(r *http.Request) string {
	peer := parseHost(r.RemoteAddr)
	if peer == "" || !isTrusted(peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	leftmost := ""
	for i := len(hops) - 1; i >= 0; i-- {
		ip := parseHost(hops[i])
		if ip == "" {
			continue
		}
		if !isTrusted(ip) {
			return ip
		}
		leftmost = ip
	}
	if leftmost != "" {
		return leftmost
	}
	if ip := parseHost(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return peer
}

// parseHost accepts "1.2.3.4", "1.2.3.4:80", "::1" or "[::1]:80".
func parseHost(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip.String()
		}
	}
	return ""
}
