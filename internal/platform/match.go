package platform

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// AllURLs is the match pattern that accepts every http, https and file URL.
const AllURLs = "<all_urls>"

// Pattern is a compiled browser match pattern such as
// "*://*.instructure.com/courses/*/quizzes/*".
type Pattern struct {
	raw        string
	all        bool
	scheme     string
	host       string
	subdomains bool
	path       *regexp.Regexp
}

// ParsePattern compiles a match pattern. Schemes are "*" (http or https) or
// an explicit scheme; hosts are "*", "*.domain" or an exact name; the path
// may use "*" wildcards and is matched against path plus query.
func ParsePattern(raw string) (Pattern, error) {
	raw = strings.TrimSpace(raw)
	if raw == AllURLs {
		return Pattern{raw: raw, all: true}, nil
	}
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Pattern{}, fmt.Errorf("match pattern %q: missing scheme separator", raw)
	}
	if scheme != "*" && scheme != "http" && scheme != "https" && scheme != "file" {
		return Pattern{}, fmt.Errorf("match pattern %q: unsupported scheme %q", raw, scheme)
	}
	slash := strings.IndexByte(rest, '/')
	if slash == -1 {
		return Pattern{}, fmt.Errorf("match pattern %q: missing path", raw)
	}
	host, pathPattern := rest[:slash], rest[slash:]
	p := Pattern{raw: raw, scheme: scheme}
	switch {
	case host == "*":
		p.host = "*"
	case strings.HasPrefix(host, "*."):
		p.host = strings.ToLower(host[2:])
		p.subdomains = true
	case strings.Contains(host, "*"):
		return Pattern{}, fmt.Errorf("match pattern %q: wildcard must lead the host", raw)
	case host == "" && scheme != "file":
		return Pattern{}, fmt.Errorf("match pattern %q: missing host", raw)
	default:
		p.host = strings.ToLower(host)
	}
	quoted := make([]string, 0)
	for _, part := range strings.Split(pathPattern, "*") {
		quoted = append(quoted, regexp.QuoteMeta(part))
	}
	compiled, err := regexp.Compile("^" + strings.Join(quoted, ".*") + "$")
	if err != nil {
		return Pattern{}, fmt.Errorf("match pattern %q: %w", raw, err)
	}
	p.path = compiled
	return p, nil
}

// ParsePatterns compiles every pattern, failing on the first invalid one.
func ParsePatterns(raws []string) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(raws))
	for _, raw := range raws {
		pattern, err := ParsePattern(raw)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// String returns the source pattern.
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether rawURL satisfies the pattern.
func (p Pattern) Match(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if p.all {
		return scheme == "http" || scheme == "https" || scheme == "file"
	}
	switch p.scheme {
	case "*":
		if scheme != "http" && scheme != "https" {
			return false
		}
	default:
		if scheme != p.scheme {
			return false
		}
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case p.host == "*":
	case p.subdomains:
		if host != p.host && !strings.HasSuffix(host, "."+p.host) {
			return false
		}
	case host != p.host:
		return false
	}
	target := u.EscapedPath()
	if target == "" {
		target = "/"
	}
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return p.path.MatchString(target)
}

// MatchAny reports whether any pattern matches rawURL.
func MatchAny(patterns []Pattern, rawURL string) bool {
	for _, pattern := range patterns {
		if pattern.Match(rawURL) {
			return true
		}
	}
	return false
}

// ValidHostPattern reports whether a host glob is well formed.
func ValidHostPattern(pattern string) bool {
	_, err := path.Match(strings.ToLower(pattern), "")
	return err == nil && strings.TrimSpace(pattern) != ""
}

// MatchHost reports whether the host of rawURL matches a glob such as
// "*.instructure.com".
func MatchHost(pattern, rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	ok, err := path.Match(strings.ToLower(pattern), host)
	return err == nil && ok
}
