package services

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"portal-resolver-service/internal/models"
)

// PortalTheme is the rendering-layer view of a tenant's branding with
// defaults applied.
type PortalTheme struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	LogoURL        string `json:"logo_url,omitempty"`
	FaviconURL     string `json:"favicon_url,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
}

// HSL is a color in hue/saturation/lightness space, hue in [0,360),
// saturation and lightness in [0,100].
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// GetPortalTheme builds a theme from raw branding, applying the same
// defaults as the resolver so callers holding raw branding render
// identically.
func GetPortalTheme(branding models.Branding) PortalTheme {
	b := branding.WithDefaults()
	return PortalTheme{
		PrimaryColor:   b.PrimaryColor,
		SecondaryColor: b.SecondaryColor,
		LogoURL:        b.LogoURL,
		FaviconURL:     b.FaviconURL,
		CompanyName:    b.CompanyName,
	}
}

// HexToHSL converts a #RRGGBB (or #RGB) color to HSL using the standard
// max/min channel algorithm.
func HexToHSL(hex string) (HSL, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return HSL{}, fmt.Errorf("invalid hex color %q", hex)
	}

	rgb := make([]float64, 3)
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return HSL{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		rgb[i] = float64(v) / 255
	}
	r, g, b := rgb[0], rgb[1], rgb[2]

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2

	var h, s float64
	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}
		switch max {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		case b:
			h = (r-g)/d + 4
		}
		h *= 60
	}

	out := HSL{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
	return out, nil
}

// GeneratePortalCSS emits CSS custom properties for both brand colors
// as raw hex values plus their HSL channels, which the rendering layer
// uses to derive tint and shade variants.
func GeneratePortalCSS(theme PortalTheme) string {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	writeColorVars(&sb, "primary", theme.PrimaryColor)
	writeColorVars(&sb, "secondary", theme.SecondaryColor)
	sb.WriteString("}\n")
	return sb.String()
}

func writeColorVars(sb *strings.Builder, name, hex string) {
	fmt.Fprintf(sb, "  --portal-%s: %s;\n", name, hex)
	hsl, err := HexToHSL(hex)
	if err != nil {
		return
	}
	fmt.Fprintf(sb, "  --portal-%s-h: %d;\n", name, hsl.H)
	fmt.Fprintf(sb, "  --portal-%s-s: %d%%;\n", name, hsl.S)
	fmt.Fprintf(sb, "  --portal-%s-l: %d%%;\n", name, hsl.L)
}

// GeneratePortalMetaTags emits the HTML head fragment for a resolved
// portal. Branding fields are tenant-controlled free text, so every
// interpolated value is HTML-escaped.
func GeneratePortalMetaTags(result *models.PortalResolutionResult) string {
	branding := result.Branding.WithDefaults()

	title := branding.CompanyName
	if title == "" {
		title = result.TenantName
	}
	escaped := html.EscapeString(title)

	var sb strings.Builder
	fmt.Fprintf(&sb, "<title>%s</title>\n", escaped)
	if branding.FaviconURL != "" {
		fmt.Fprintf(&sb, "<link rel=\"icon\" href=\"%s\">\n", html.EscapeString(branding.FaviconURL))
	}
	fmt.Fprintf(&sb, "<meta name=\"theme-color\" content=\"%s\">\n", html.EscapeString(branding.PrimaryColor))
	fmt.Fprintf(&sb, "<meta property=\"og:site_name\" content=\"%s\">\n", escaped)
	return sb.String()
}
