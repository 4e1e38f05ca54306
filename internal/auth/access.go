package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gobwas/glob"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

// Access is the requirement a Rule places on the caller.
type Access int

const (
	Public Access = iota
	Authenticated
	RoleIn
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case RoleIn:
		return "role_in"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

// Rule maps a method set and an Ant-style path pattern to an Access level.
// An empty Methods slice matches every verb.
type Rule struct {
	Methods []string
	Pattern string
	Access  Access
	Roles   []string
}

type compiledRule struct {
	Rule
	methods map[string]struct{}
	glob    glob.Glob
}

func (r compiledRule) matches(method, path string) bool {
	if len(r.methods) > 0 {
		if _, ok := r.methods[strings.ToUpper(method)]; !ok {
			return false
		}
	}
	return r.glob.Match(path)
}

// compilePattern turns an Ant-style pattern into a glob using '/' as the
// segment separator. A trailing "/**" also matches the bare prefix.
func compilePattern(pattern string) (glob.Glob, error) {
	expr := pattern
	if base, ok := strings.CutSuffix(pattern, "/**"); ok && base != "" {
		expr = "{" + base + "," + pattern + "}"
	}
	g, err := glob.Compile(expr, '/')
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return g, nil
}

// Policy is an ordered rule list. The first matching rule decides; requests
// no rule matches require authentication.
type Policy struct {
	rules []compiledRule
}

// NewPolicy compiles rules in order.
func NewPolicy(rules ...Rule) (*Policy, error) {
	p := &Policy{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		if r.Access == RoleIn && len(r.Roles) == 0 {
			return nil, fmt.Errorf("rule %q: role_in needs at least one role", r.Pattern)
		}
		g, err := compilePattern(r.Pattern)
		if err != nil {
			return nil, err
		}
		cr := compiledRule{Rule: r, glob: g}
		if len(r.Methods) > 0 {
			cr.methods = make(map[string]struct{}, len(r.Methods))
			for _, m := range r.Methods {
				cr.methods[strings.ToUpper(m)] = struct{}{}
			}
		}
		p.rules = append(p.rules, cr)
	}
	return p, nil
}

// Match returns the first rule matching method and path.
func (p *Policy) Match(method, path string) (Rule, bool) {
	for _, r := range p.rules {
		if r.matches(method, path) {
			return r.Rule, true
		}
	}
	return Rule{}, false
}

// Decide returns nil when principal may perform method on path,
// ErrUnauthorized when authentication is missing and ErrForbidden when the
// principal lacks every required role. principal may be nil.
func (p *Policy) Decide(method, path string, principal *Principal) error {
	rule, ok := p.Match(method, path)
	if !ok {
		rule = Rule{Access: Authenticated}
	}

	switch rule.Access {
	case Public:
		return nil
	case RoleIn:
		if principal == nil {
			return ErrUnauthorized
		}
		if !principal.HasAnyRole(rule.Roles...) {
			return ErrForbidden
		}
		return nil
	default:
		if principal == nil {
			return ErrUnauthorized
		}
		return nil
	}
}

// PathMatcher reports whether a path matches any of a set of Ant-style
// patterns.
type PathMatcher struct {
	globs []glob.Glob
}

// NewPathMatcher compiles patterns.
func NewPathMatcher(patterns ...string) (*PathMatcher, error) {
	m := &PathMatcher{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether path matches one of the patterns.
func (m *PathMatcher) Match(path string) bool {
	for _, g := range m.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// PublicPaths are served without looking at credentials at all.
var PublicPaths = []string{
	"/api/auth/**",
	"/health",
	"/health/**",
	"/metrics",
	"/swagger/**",
}

var writeMethods = []string{http.MethodPost, http.MethodPut, http.MethodDelete}

// DefaultRules is the blog's ordered access rule set.
func DefaultRules() []Rule {
	admin := []string{domain.RoleAdmin}
	get := []string{http.MethodGet}
	return []Rule{
		{Pattern: "/api/auth/**", Access: Public},

		{Methods: get, Pattern: "/swagger/**", Access: Public},
		{Methods: get, Pattern: "/health", Access: Public},
		{Methods: get, Pattern: "/health/**", Access: Public},
		{Methods: get, Pattern: "/metrics", Access: Public},

		{Pattern: "/api/users/*/roles", Access: RoleIn, Roles: admin},
		{Pattern: "/api/users/**", Access: Authenticated},

		{Methods: get, Pattern: "/api/**", Access: Public},

		{Methods: writeMethods, Pattern: "/api/posts/*/comments", Access: Authenticated},
		{Methods: writeMethods, Pattern: "/api/posts/*/comments/**", Access: Authenticated},

		{Methods: writeMethods, Pattern: "/api/posts/**", Access: RoleIn, Roles: admin},
		{Methods: writeMethods, Pattern: "/api/categories/**", Access: RoleIn, Roles: admin},
	}
}

// DefaultPolicy compiles DefaultRules. It panics only if a built-in pattern
// is invalid.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultRules()...)
	if err != nil {
		panic(err)
	}
	return p
}
