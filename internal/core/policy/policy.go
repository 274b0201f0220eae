// Package policy maps request paths to the role they require.
//
// Rules are evaluated in declaration order and the first matching rule wins.
// A path that matches no rule requires an authenticated caller of any role.
package policy

import (
	"fmt"
	"path"
	"strings"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

type kind uint8

const (
	kindAuthenticated kind = iota
	kindNone
	kindRole
)

// Requirement is what a path demands from the caller.
type Requirement struct {
	kind kind
	role domain.Role
}

var (
	// RequireNone lets the request through without credentials.
	RequireNone = Requirement{kind: kindNone}
	// RequireAuthenticated demands valid credentials of any role.
	RequireAuthenticated = Requirement{kind: kindAuthenticated}
)

// RequireRole demands valid credentials carrying exactly role.
func RequireRole(role domain.Role) Requirement {
	return Requirement{kind: kindRole, role: role}
}

// Public reports whether the requirement skips authentication entirely.
func (r Requirement) Public() bool { return r.kind == kindNone }

// Role returns the required role, or "" when any role is accepted.
func (r Requirement) Role() domain.Role { return r.role }

// Allows reports whether id satisfies the requirement. A nil identity only
// satisfies RequireNone.
func (r Requirement) Allows(id *domain.Identity) bool {
	switch r.kind {
	case kindNone:
		return true
	case kindAuthenticated:
		return id != nil
	default:
		return id != nil && id.Role == r.role
	}
}

func (r Requirement) String() string {
	switch r.kind {
	case kindNone:
		return "NONE"
	case kindAuthenticated:
		return "ANY_AUTHENTICATED"
	default:
		return string(r.role)
	}
}

// Rule binds a path prefix to a requirement. The prefix matches itself and
// anything below it on a segment boundary.
type Rule struct {
	Prefix      string
	Requirement Requirement
}

func (r Rule) matches(p string) bool {
	if p == r.Prefix {
		return true
	}
	return strings.HasPrefix(p, r.Prefix+"/")
}

// Policy is an ordered, immutable rule table.
type Policy struct {
	rules    []Rule
	fallback Requirement
}

// New validates and freezes rules. It fails when two rules share a prefix or
// when a rule can never fire because an earlier, broader rule with a
// different requirement already covers it.
func New(rules ...Rule) (*Policy, error) {
	frozen := make([]Rule, 0, len(rules))
	for i, r := range rules {
		prefix := cleanPath(r.Prefix)
		if prefix == "/" {
			return nil, fmt.Errorf("policy: rule %d: root prefix would shadow the fallback", i)
		}
		r.Prefix = prefix
		for j, prev := range frozen {
			if prev.Prefix == r.Prefix {
				return nil, fmt.Errorf("policy: rule %d duplicates prefix %q of rule %d", i, r.Prefix, j)
			}
			if prev.matches(r.Prefix) && prev.Requirement != r.Requirement {
				return nil, fmt.Errorf("policy: rule %d (%s %s) is shadowed by rule %d (%s %s)",
					i, r.Prefix, r.Requirement, j, prev.Prefix, prev.Requirement)
			}
		}
		frozen = append(frozen, r)
	}
	return &Policy{rules: frozen, fallback: RequireAuthenticated}, nil
}

// Default returns the table used by the API:
//
//	/api/v1/basicauth → NONE
//	/api/v1/admin     → ADMIN
//	/api/v1/employee  → EMPLOYEE
//	anything else     → ANY_AUTHENTICATED
func Default() *Policy {
	p, err := New(
		Rule{Prefix: "/api/v1/basicauth", Requirement: RequireNone},
		Rule{Prefix: "/api/v1/admin", Requirement: RequireRole(domain.RoleAdmin)},
		Rule{Prefix: "/api/v1/employee", Requirement: RequireRole(domain.RoleEmployee)},
	)
	if err != nil {
		panic(err)
	}
	return p
}

// RequiredRole returns the requirement for the request path p.
func (p *Policy) RequiredRole(reqPath string) Requirement {
	clean := cleanPath(reqPath)
	for _, r := range p.rules {
		if r.matches(clean) {
			return r.Requirement
		}
	}
	return p.fallback
}

// Rules returns a copy of the rule table in evaluation order.
func (p *Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
