package util

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		expected   string
	}{
		{"ipv4 with port", "192.168.1.100:54321", "192.168.1.100"},
		{"ipv6 with port", "[2001:db8::1]:443", "2001:db8::1"},
		{"bare address from RealIP", "203.0.113.7", "203.0.113.7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/check/A1", nil)
			req.RemoteAddr = tc.remoteAddr
			assert.Equal(t, tc.expected, ClientIP(req))
		})
	}
}
