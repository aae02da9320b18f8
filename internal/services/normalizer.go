package services

import "strings"

// NormalizeDomain canonicalizes a raw hostname into the lookup key used
// for cache keys, store keys and comparison predicates: trims
// whitespace, lowercases, strips a trailing :port suffix, trailing dots
// and a leading "www.". Total and idempotent; every boundary where a
// hostname enters the resolver must apply it.
func NormalizeDomain(raw string) string {
	domain := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(domain, "["):
		// Bracketed IPv6 literal, with or without a port
		if end := strings.IndexByte(domain, ']'); end >= 0 {
			domain = domain[1:end]
		} else {
			domain = domain[1:]
		}
	case strings.Count(domain, ":") == 1:
		domain = domain[:strings.IndexByte(domain, ':')]
	}
	// Bare IPv6 literals keep their colons; the IP exclusion catches them
	domain = strings.TrimRight(domain, ".")
	for strings.HasPrefix(domain, "www.") {
		domain = strings.TrimPrefix(domain, "www.")
	}
	return domain
}
