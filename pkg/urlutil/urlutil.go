// Package urlutil implements URL canonicalization, link resolution, and the
// blocklist helpers used for admission decisions during crawling.
package urlutil

import (
	"net/url"
	"strings"
)

// Canonicalize applies the crawl's URL identity rule: scheme+host+path+query,
// no fragment, with default ports stripped and the host lowercased.
//
// A bare root path is normalized to "/"; any other path is left exactly as
// authored. Trailing slashes on non-root paths are intentionally preserved:
// a search corpus is as likely to serve "/docs/" and "/docs" as distinct
// pages as it is to treat them as one, so collapsing the two would lose
// real URL identity rather than clean it up.
func Canonicalize(u url.URL) url.URL {
	canonical := u
	canonical.Scheme = strings.ToLower(canonical.Scheme)
	canonical.Host = strings.ToLower(canonical.Host)

	if port := canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = canonical.Hostname()
		}
	}

	if canonical.Path == "" {
		canonical.Path = "/"
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""
	return canonical
}

// Resolve resolves href against base (the fetched page's final URL) and
// returns its canonical form. It returns ok=false for hrefs that should
// never be queued: empty, "#...", "mailto:", "tel:", or a target that
// fails to parse.
func Resolve(href string, base url.URL) (url.URL, bool) {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return url.URL{}, false
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return url.URL{}, false
	}

	// Strip fragment suffix before resolving; a "#frag" appended to the
	// current URL must not be re-queued as a distinct page.
	if idx := strings.Index(trimmed, "#"); idx != -1 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return url.URL{}, false
	}

	ref, err := url.Parse(trimmed)
	if err != nil {
		return url.URL{}, false
	}
	resolved := base.ResolveReference(ref)
	return Canonicalize(*resolved), true
}

// IsHTTP reports whether u uses the http or https scheme.
func IsHTTP(u url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

var binaryExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".ppt": {}, ".pptx": {},
	".xls": {}, ".xlsx": {}, ".csv": {},
	".zip": {}, ".rar": {}, ".tar": {}, ".gz": {}, ".7z": {},
	".mp3": {}, ".wav": {}, ".flac": {}, ".ogg": {},
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".webm": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".svg": {}, ".webp": {}, ".ico": {},
}

// HasBinaryExtension reports whether path ends in a known binary-media
// extension: pdf, doc*, ppt*, xls*, csv, archives, audio/video, image.
func HasBinaryExtension(path string) bool {
	lower := strings.ToLower(path)
	for ext := range binaryExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ContainsDomain reports whether any blocklist entry is a substring of the
// full URL string — deliberately substring match, not host match, so
// "foogithub.com" is blocked by a "github.com" blocklist entry.
func ContainsDomain(fullURL string, blocklist []string) bool {
	lower := strings.ToLower(fullURL)
	for _, entry := range blocklist {
		if entry == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}
