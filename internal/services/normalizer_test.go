package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "already normalized",
			raw:      "acme.com",
			expected: "acme.com",
		},
		{
			name:     "uppercase",
			raw:      "ACME.COM",
			expected: "acme.com",
		},
		{
			name:     "www prefix",
			raw:      "www.acme.com",
			expected: "acme.com",
		},
		{
			name:     "trailing dot",
			raw:      "acme.com.",
			expected: "acme.com",
		},
		{
			name:     "port suffix",
			raw:      "acme.com:8080",
			expected: "acme.com",
		},
		{
			name:     "everything at once",
			raw:      "  WWW.Acme.COM.:443  ",
			expected: "acme.com",
		},
		{
			name:     "subdomain kept",
			raw:      "shop.acme.com",
			expected: "shop.acme.com",
		},
		{
			name:     "empty string",
			raw:      "",
			expected: "",
		},
		{
			name:     "bracketed ipv6 with port",
			raw:      "[::1]:443",
			expected: "::1",
		},
		{
			name:     "bracketed ipv6 without port",
			raw:      "[2001:db8::1]",
			expected: "2001:db8::1",
		},
		{
			name:     "bare ipv6 keeps colons",
			raw:      "::1",
			expected: "::1",
		},
		{
			name:     "whitespace only",
			raw:      "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDomain(tt.raw))
		})
	}
}

func TestNormalizeDomain_Idempotent(t *testing.T) {
	inputs := []string{
		"acme.com",
		"WWW.Acme.COM:443",
		"www.www.acme.com",
		"acme.com..",
		"  shop.example.co.uk.  ",
		"localhost:3000",
		"",
		"...",
		"www.",
		"[::1]:443",
		"[2001:db8::1]",
		"::1",
		"[",
	}

	for _, raw := range inputs {
		once := NormalizeDomain(raw)
		twice := NormalizeDomain(once)
		assert.Equal(t, once, twice, "normalize must be idempotent for %q", raw)
	}
}
