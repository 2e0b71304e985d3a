package config

import (
	"regexp"
	"strings"
)

var (
	shopDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-]*\.myshopify\.com$`)
	apiVersionPattern = regexp.MustCompile(`^(\d{4}-(0[1-9]|1[0-2])|unstable)$`)
)

// ValidAPIVersion accepts quarterly release names such as 2024-07 and
// "unstable".
func ValidAPIVersion(version string) bool {
	return apiVersionPattern.MatchString(version)
}

// ValidShopDomain reports whether domain is a bare *.myshopify.com host.
func ValidShopDomain(domain string) bool {
	return shopDomainPattern.MatchString(domain)
}

// NormalizeShopDomain lowercases domain, strips a scheme and trailing
// slashes, and expands a bare shop handle to its myshopify host.
func NormalizeShopDomain(domain string) string {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	normalized = strings.TrimPrefix(normalized, "https://")
	normalized = strings.TrimPrefix(normalized, "http://")
	normalized = strings.TrimRight(normalized, "/")
	if normalized != "" && !strings.Contains(normalized, ".") {
		normalized += MyshopifyDomainSuffix
	}
	return normalized
}
