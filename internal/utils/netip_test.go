package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "203.0.113.7:51324",
			want:       "203.0.113.7",
		},
		{
			name:       "proxy headers ignored when untrusted",
			remoteAddr: "203.0.113.7:51324",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1"},
			want:       "203.0.113.7",
		},
		{
			name:       "cf header wins",
			remoteAddr: "127.0.0.1:1234",
			headers: map[string]string{
				"CF-Connecting-IP": "198.51.100.1",
				"X-Forwarded-For":  "192.0.2.9",
			},
			trustProxy: true,
			want:       "198.51.100.1",
		},
		{
			name:       "first forwarded hop",
			remoteAddr: "127.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "192.0.2.9, 198.51.100.1"},
			trustProxy: true,
			want:       "192.0.2.9",
		},
		{
			name:       "real ip fallback",
			remoteAddr: "127.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "192.0.2.9"},
			trustProxy: true,
			want:       "192.0.2.9",
		},
		{
			name:       "ipv6 with port",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"203.0.113.7", "10.0.0.0/8", "", "not-an-ip"})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}
	if !m.Allow("203.0.113.7") {
		t.Error("exact IP rejected")
	}
	if !m.Allow("10.42.0.1") {
		t.Error("CIDR member rejected")
	}
	if m.Allow("192.0.2.1") {
		t.Error("outsider allowed")
	}
	if m.Allow("garbage") {
		t.Error("unparseable input allowed")
	}
	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should build an empty matcher")
	}
}
