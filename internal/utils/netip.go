package utils

import (
	"net"
	"net/http"
	"strings"
)

// HostOnly strips the port from "ip:port" or "[v6]:port"; bare hosts pass
// through unchanged.
func HostOnly(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// firstHop takes the left-most entry of a comma-separated header value,
// the hop closest to the original client.
func firstHop(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// proxyHeaders, in precedence order. CF-Connecting-IP is set by the tunnel
// itself and cannot be spoofed past it; the others can carry client junk,
// so only the first hop of X-Forwarded-For is believed.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ClientIP resolves the address a request came from. With trustProxy set
// the usual reverse-proxy headers are consulted first; without it only
// RemoteAddr counts, so a direct caller cannot forge an identity.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range proxyHeaders {
			if ip := HostOnly(firstHop(r.Header.Get(h))); ip != "" {
				return ip
			}
		}
	}
	return HostOnly(r.RemoteAddr)
}

// IPMatcher answers membership against a mixed list of exact IPs and CIDR
// ranges. Malformed entries are dropped at construction.
type IPMatcher struct {
	ips  []net.IP
	nets []*net.IPNet
}

func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if _, ipnet, err := net.ParseCIDR(s); err == nil {
			m.nets = append(m.nets, ipnet)
			continue
		}
		if ip := net.ParseIP(s); ip != nil {
			m.ips = append(m.ips, ip)
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.ips) == 0 && len(m.nets) == 0
}

func (m *IPMatcher) Allow(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, v := range m.ips {
		if v.Equal(ip) {
			return true
		}
	}
	for _, n := range m.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
