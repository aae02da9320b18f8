package services

import (
	"net"
	"regexp"
	"strings"

	"portal-resolver-service/internal/config"
)

// labelRegex validates a single DNS label: lowercase alphanumeric and
// hyphens, no leading or trailing hyphen.
var labelRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// RootDomain pairs a landing root domain with its reserved label set
type RootDomain struct {
	Domain   string
	Reserved map[string]struct{}
}

// Classifier decides which resolution strategy applies to a hostname.
// It is constructed once from config and is safe for concurrent use.
type Classifier struct {
	mainAppDomains []string
	roots          []RootDomain
}

// NewClassifier creates a classifier from resolver configuration.
// Root domains keep their configured order; the first match wins.
func NewClassifier(cfg config.ResolverConfig) *Classifier {
	reserved := make(map[string]struct{}, len(cfg.ReservedSubdomains))
	for _, label := range cfg.ReservedSubdomains {
		reserved[NormalizeDomain(label)] = struct{}{}
	}

	roots := make([]RootDomain, 0, len(cfg.RootDomains))
	for _, root := range cfg.RootDomains {
		roots = append(roots, RootDomain{
			Domain:   NormalizeDomain(root),
			Reserved: reserved,
		})
	}

	mains := make([]string, 0, len(cfg.MainAppDomains))
	for _, d := range cfg.MainAppDomains {
		mains = append(mains, NormalizeDomain(d))
	}

	return &Classifier{
		mainAppDomains: mains,
		roots:          roots,
	}
}

// IsPortalDomain reports whether a hostname may be treated as a
// tenant-owned portal domain. The platform's own operational domains
// (apex or any subdomain), localhost and IP literals are never
// portal domains.
func (c *Classifier) IsPortalDomain(hostname string) bool {
	host := NormalizeDomain(hostname)
	if host == "" {
		return false
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return false
	}
	if net.ParseIP(host) != nil {
		return false
	}
	for _, main := range c.mainAppDomains {
		if host == main || strings.HasSuffix(host, "."+main) {
			return false
		}
	}
	return true
}

// IsAgencyLandingSubdomain reports whether a hostname is a single
// non-reserved label directly under one of the landing root domains.
// The apex root itself and multi-level hostnames do not match.
func (c *Classifier) IsAgencyLandingSubdomain(hostname string) bool {
	_, ok := c.ExtractSubdomain(hostname)
	return ok
}

// ExtractSubdomain returns the landing subdomain label for a hostname,
// or false when the hostname is not an agency landing subdomain.
func (c *Classifier) ExtractSubdomain(hostname string) (string, bool) {
	host := NormalizeDomain(hostname)
	for _, root := range c.roots {
		suffix := "." + root.Domain
		if !strings.HasSuffix(host, suffix) {
			continue
		}
		label := strings.TrimSuffix(host, suffix)
		if label == "" || strings.Contains(label, ".") {
			continue
		}
		if !labelRegex.MatchString(label) {
			continue
		}
		if _, reserved := root.Reserved[label]; reserved {
			continue
		}
		return label, true
	}
	return "", false
}
