package services

import (
	"strings"
	"testing"

	"portal-resolver-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		name     string
		hex      string
		expected HSL
	}{
		{
			name:     "white",
			hex:      "#ffffff",
			expected: HSL{H: 0, S: 0, L: 100},
		},
		{
			name:     "black",
			hex:      "#000000",
			expected: HSL{H: 0, S: 0, L: 0},
		},
		{
			name:     "pure red",
			hex:      "#ff0000",
			expected: HSL{H: 0, S: 100, L: 50},
		},
		{
			name:     "pure green",
			hex:      "#00ff00",
			expected: HSL{H: 120, S: 100, L: 50},
		},
		{
			name:     "pure blue",
			hex:      "#0000ff",
			expected: HSL{H: 240, S: 100, L: 50},
		},
		{
			name:     "short form",
			hex:      "#f00",
			expected: HSL{H: 0, S: 100, L: 50},
		},
		{
			name:     "no hash prefix",
			hex:      "ff0000",
			expected: HSL{H: 0, S: 100, L: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hsl, err := HexToHSL(tt.hex)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hsl)
		})
	}
}

func TestHexToHSL_Ranges(t *testing.T) {
	colors := []string{"#4f46e5", "#10b981", "#112233", "#abcdef", "#808080", "#123456"}
	for _, hex := range colors {
		hsl, err := HexToHSL(hex)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, hsl.H, 0, "hue for %s", hex)
		assert.Less(t, hsl.H, 360, "hue for %s", hex)
		assert.GreaterOrEqual(t, hsl.S, 0, "saturation for %s", hex)
		assert.LessOrEqual(t, hsl.S, 100, "saturation for %s", hex)
		assert.GreaterOrEqual(t, hsl.L, 0, "lightness for %s", hex)
		assert.LessOrEqual(t, hsl.L, 100, "lightness for %s", hex)
	}
}

func TestHexToHSL_Invalid(t *testing.T) {
	for _, hex := range []string{"", "#12", "#12345", "#gggggg", "not-a-color"} {
		_, err := HexToHSL(hex)
		assert.Error(t, err, "expected error for %q", hex)
	}
}

func TestGetPortalTheme_AppliesDefaults(t *testing.T) {
	theme := GetPortalTheme(models.Branding{CompanyName: "Acme Inc"})

	assert.Equal(t, models.DefaultPrimaryColor, theme.PrimaryColor)
	assert.Equal(t, models.DefaultSecondaryColor, theme.SecondaryColor)
	assert.Equal(t, "Acme Inc", theme.CompanyName)

	custom := GetPortalTheme(models.Branding{PrimaryColor: "#112233"})
	assert.Equal(t, "#112233", custom.PrimaryColor)
	assert.Equal(t, models.DefaultSecondaryColor, custom.SecondaryColor)
}

func TestGeneratePortalCSS(t *testing.T) {
	css := GeneratePortalCSS(PortalTheme{
		PrimaryColor:   "#ff0000",
		SecondaryColor: "#10b981",
	})

	assert.Contains(t, css, ":root {")
	assert.Contains(t, css, "--portal-primary: #ff0000;")
	assert.Contains(t, css, "--portal-primary-h: 0;")
	assert.Contains(t, css, "--portal-primary-s: 100%;")
	assert.Contains(t, css, "--portal-primary-l: 50%;")
	assert.Contains(t, css, "--portal-secondary: #10b981;")
	assert.Contains(t, css, "--portal-secondary-h:")
}

func TestGeneratePortalMetaTags(t *testing.T) {
	result := &models.PortalResolutionResult{
		TenantName: "Acme",
		Branding: models.Branding{
			CompanyName:  "Acme Agency",
			FaviconURL:   "https://cdn.acme.com/favicon.ico",
			PrimaryColor: "#112233",
		},
	}

	tags := GeneratePortalMetaTags(result)
	assert.Contains(t, tags, "<title>Acme Agency</title>")
	assert.Contains(t, tags, `<link rel="icon" href="https://cdn.acme.com/favicon.ico">`)
	assert.Contains(t, tags, `<meta name="theme-color" content="#112233">`)
	assert.Contains(t, tags, `<meta property="og:site_name" content="Acme Agency">`)
}

func TestGeneratePortalMetaTags_EscapesBranding(t *testing.T) {
	result := &models.PortalResolutionResult{
		TenantName: "fallback",
		Branding: models.Branding{
			CompanyName: `<script>alert("x")</script>`,
			FaviconURL:  `https://cdn.test/'"><script>`,
		},
	}

	tags := GeneratePortalMetaTags(result)
	assert.NotContains(t, tags, "<script>")
	assert.Contains(t, tags, "&lt;script&gt;")
	// Quotes inside attribute values must be escaped
	for _, line := range strings.Split(strings.TrimSpace(tags), "\n") {
		assert.LessOrEqual(t, strings.Count(line, `">`), 1, "unescaped quote in %q", line)
	}
}

func TestGeneratePortalMetaTags_FallsBackToTenantName(t *testing.T) {
	result := &models.PortalResolutionResult{TenantName: "Acme"}
	tags := GeneratePortalMetaTags(result)
	assert.Contains(t, tags, "<title>Acme</title>")
}
