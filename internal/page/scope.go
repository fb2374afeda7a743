package page

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrOutOfScope is returned when a page URL matches no activation rule.
var ErrOutOfScope = errors.New("page is outside the activation scope")

// AllURLs matches every http and https page.
const AllURLs = "<all_urls>"

// Rule is one activation pattern in match-pattern form, for example
// "https://learn.astanait.edu.kz/*". Scheme "*" stands for http or https.
// A "*" in the path crosses "/" boundaries.
type Rule struct {
	raw    string
	scheme string
	host   string
	path   string
}

// ParseRule parses a match pattern.
func ParseRule(pattern string) (Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == AllURLs {
		return Rule{raw: pattern, scheme: "*", host: "*", path: "/**"}, nil
	}

	scheme, rest, ok := strings.Cut(pattern, "://")
	if !ok || scheme == "" || rest == "" {
		return Rule{}, fmt.Errorf("invalid match pattern %q", pattern)
	}

	host, path, _ := strings.Cut(rest, "/")
	if host == "" {
		return Rule{}, fmt.Errorf("invalid match pattern %q: missing host", pattern)
	}
	path = "/" + strings.ReplaceAll(path, "*", "**")
	// Collapse runs produced by patterns that already used "**".
	for strings.Contains(path, "***") {
		path = strings.ReplaceAll(path, "***", "**")
	}

	r := Rule{
		raw:    pattern,
		scheme: strings.ToLower(scheme),
		host:   strings.ToLower(host),
		path:   path,
	}
	if !doublestar.ValidatePattern(r.host) || !doublestar.ValidatePattern(r.path) {
		return Rule{}, fmt.Errorf("invalid match pattern %q", pattern)
	}
	return r, nil
}

// String returns the pattern the rule was parsed from.
func (r Rule) String() string {
	return r.raw
}

// Matches reports whether u satisfies the rule.
func (r Rule) Matches(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	switch r.scheme {
	case "*":
		if scheme != "http" && scheme != "https" {
			return false
		}
	default:
		if scheme != r.scheme {
			return false
		}
	}

	if ok, _ := doublestar.Match(r.host, strings.ToLower(u.Hostname())); !ok {
		return false
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	ok, _ := doublestar.Match(r.path, path)
	return ok
}

// Scope is the ordered set of activation rules.
type Scope struct {
	rules []Rule
}

// NewScope parses patterns into a scope. Blank patterns are skipped; an
// empty scope allows every http and https page.
func NewScope(patterns []string) (*Scope, error) {
	s := &Scope{}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		r, err := ParseRule(p)
		if err != nil {
			return nil, err
		}
		s.rules = append(s.rules, r)
	}
	if len(s.rules) == 0 {
		all, _ := ParseRule(AllURLs)
		s.rules = append(s.rules, all)
	}
	return s, nil
}

// Rules returns the parsed rules.
func (s *Scope) Rules() []Rule {
	return s.rules
}

// Allows reports whether the page at raw may be exported.
func (s *Scope) Allows(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	for _, r := range s.rules {
		if r.Matches(u) {
			return true
		}
	}
	return false
}

// Check returns ErrOutOfScope when raw is not allowed.
func (s *Scope) Check(raw string) error {
	if s.Allows(raw) {
		return nil
	}
	if raw == "" {
		return fmt.Errorf("%w: page URL unknown", ErrOutOfScope)
	}
	return fmt.Errorf("%w: %s", ErrOutOfScope, raw)
}
