package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// Known analytics/ad hosts. URLs matching these are never useful as
// brand assets and get suppressed everywhere, not just for images.
var trackerHostSubstrings = []string{
	"google-analytics.com",
	"tealiumiq.com",
	"doubleclick.net",
	"googletagmanager.com",
	"facebook.com/tr",
	"connect.facebook.net",
}

// ResolveURL resolves ref against base. Empty references and data URIs
// resolve to "".
func ResolveURL(ref string, base *url.URL) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func IsTracker(rawURL string) bool {
	u := strings.ToLower(rawURL)
	for _, t := range trackerHostSubstrings {
		if strings.Contains(u, t) {
			return true
		}
	}
	return false
}

// SameDomain reports whether assetURL points at the same registrable
// domain as base, treating "www." as noise. Hostless (still relative)
// URLs count as same-domain.
func SameDomain(assetURL string, base *url.URL) bool {
	a, err := url.Parse(assetURL)
	if err != nil {
		return false
	}
	if a.Host == "" {
		return true
	}
	host := strings.TrimPrefix(strings.ToLower(a.Hostname()), "www.")
	baseHost := strings.TrimPrefix(strings.ToLower(base.Hostname()), "www.")
	return strings.HasSuffix(host, baseHost)
}

// Dedupe keeps the first occurrence of each URL and drops empties.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// HostSlug returns the host of rawURL without a leading "www.", used
// for output folder names and report metadata.
func HostSlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(u.Host, "www."))
}

// BrandHint is the leftmost label of the target host, e.g. "acme" for
// https://www.acme.com/.
func BrandHint(base *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(base.Hostname()), "www.")
	if host == "" {
		return ""
	}
	return strings.Split(host, ".")[0]
}

func Sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("can't open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("can't hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
