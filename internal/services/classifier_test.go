package services

import (
	"testing"

	"portal-resolver-service/internal/config"

	"github.com/stretchr/testify/assert"
)

func testClassifier() *Classifier {
	return NewClassifier(config.ResolverConfig{
		MainAppDomains:     []string{"pagevine.app", "pagevine.com"},
		RootDomains:        []string{"pagevine.app"},
		ReservedSubdomains: []string{"www", "app", "api", "admin", "help", "support", "blog", "docs", "portal"},
	})
}

func TestClassifier_IsPortalDomain(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name     string
		hostname string
		expected bool
	}{
		{
			name:     "customer custom domain",
			hostname: "acme.com",
			expected: true,
		},
		{
			name:     "customer subdomain",
			hostname: "portal.acme.com",
			expected: true,
		},
		{
			name:     "main app apex",
			hostname: "pagevine.app",
			expected: false,
		},
		{
			name:     "main app subdomain",
			hostname: "app.pagevine.app",
			expected: false,
		},
		{
			name:     "second main app domain",
			hostname: "pagevine.com",
			expected: false,
		},
		{
			name:     "mixed case main app domain",
			hostname: "PAGEVINE.APP",
			expected: false,
		},
		{
			name:     "localhost",
			hostname: "localhost",
			expected: false,
		},
		{
			name:     "localhost with port",
			hostname: "localhost:3000",
			expected: false,
		},
		{
			name:     "localhost subdomain",
			hostname: "tenant.localhost",
			expected: false,
		},
		{
			name:     "loopback IP",
			hostname: "127.0.0.1",
			expected: false,
		},
		{
			name:     "IPv4 literal",
			hostname: "203.0.113.10",
			expected: false,
		},
		{
			name:     "bracketed IPv6 literal with port",
			hostname: "[::1]:443",
			expected: false,
		},
		{
			name:     "bare IPv6 literal",
			hostname: "2001:db8::1",
			expected: false,
		},
		{
			name:     "empty",
			hostname: "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.IsPortalDomain(tt.hostname))
		})
	}
}

func TestClassifier_ExtractSubdomain(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name      string
		hostname  string
		subdomain string
		ok        bool
	}{
		{
			name:      "simple landing subdomain",
			hostname:  "mystore.pagevine.app",
			subdomain: "mystore",
			ok:        true,
		},
		{
			name:      "mixed case with trailing dot",
			hostname:  "MyStore.PageVine.App.",
			subdomain: "mystore",
			ok:        true,
		},
		{
			name:     "apex root itself",
			hostname: "pagevine.app",
			ok:       false,
		},
		{
			name:     "multi-level subdomain",
			hostname: "a.b.pagevine.app",
			ok:       false,
		},
		{
			name:     "unrelated domain",
			hostname: "mystore.example.com",
			ok:       false,
		},
		{
			name:     "non-root main domain",
			hostname: "mystore.pagevine.com",
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subdomain, ok := c.ExtractSubdomain(tt.hostname)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.subdomain, subdomain)
		})
	}
}

func TestClassifier_ReservedSubdomainsExcluded(t *testing.T) {
	c := testClassifier()

	reserved := []string{"app", "api", "admin", "help", "support", "blog", "docs", "portal"}
	for _, label := range reserved {
		hostname := label + ".pagevine.app"
		assert.False(t, c.IsAgencyLandingSubdomain(hostname),
			"reserved subdomain %q must not classify as agency landing", hostname)
	}

	assert.True(t, c.IsAgencyLandingSubdomain("mystore.pagevine.app"))
}
