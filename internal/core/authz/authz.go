// Package authz evaluates authorization policies against an identity claim.
//
// Everything here is a pure function of its inputs: no I/O, no globals. The
// HTTP middleware applies role policies before a handler runs; services apply
// ownership policies after fetching the target resource.
package authz

import (
	"strings"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

// Policy is a single authorization rule.
type Policy interface {
	// Check returns nil when the claim satisfies the rule, or an error
	// matching domain.ErrForbidden otherwise.
	Check(claim domain.IdentityClaim) error
}

// Authorize evaluates policies in order and returns the first denial.
func Authorize(claim domain.IdentityClaim, policies ...Policy) error {
	for _, p := range policies {
		if err := p.Check(claim); err != nil {
			return err
		}
	}
	return nil
}

// RequireRole is the single-role gate. It is RequireRoles with one element.
func RequireRole(claim domain.IdentityClaim, role domain.Role) error {
	return RequireRoles(claim, role)
}

// RequireRoles passes iff the claim's role is one of roles.
func RequireRoles(claim domain.IdentityClaim, roles ...domain.Role) error {
	return Roles(roles...).Check(claim)
}

// RequireOwnerOrRole passes iff the claim id equals ownerID or the claim's
// role is one of overrides.
func RequireOwnerOrRole(claim domain.IdentityClaim, ownerID string, overrides ...domain.Role) error {
	return Owner(ownerID, overrides...).Check(claim)
}

// RolePolicy is the role-gate.
type RolePolicy struct {
	roles []domain.Role
	msg   string
}

// Roles builds a role-gate for the given allowed set.
func Roles(roles ...domain.Role) RolePolicy {
	return RolePolicy{roles: roles}
}

// WithMessage overrides the client-facing denial message.
func (p RolePolicy) WithMessage(msg string) RolePolicy {
	p.msg = msg
	return p
}

// Check denies with domain.ErrForbidden unless the claim's role is allowed.
func (p RolePolicy) Check(claim domain.IdentityClaim) error {
	if hasRole(claim.Role, p.roles) {
		return nil
	}
	if p.msg != "" {
		return domain.Errorf(domain.ErrForbidden, "%s", p.msg)
	}
	return domain.Errorf(domain.ErrForbidden, "only %s can access this", joinRoles(p.roles))
}

// OwnerPolicy is the ownership-gate.
type OwnerPolicy struct {
	ownerID   string
	overrides []domain.Role
	msg       string
}

// Owner builds an ownership-gate for a resource owned by ownerID. Claims whose
// role is in overrides pass regardless of ownership.
func Owner(ownerID string, overrides ...domain.Role) OwnerPolicy {
	return OwnerPolicy{ownerID: ownerID, overrides: overrides}
}

// WithMessage overrides the client-facing denial message.
func (p OwnerPolicy) WithMessage(msg string) OwnerPolicy {
	p.msg = msg
	return p
}

// Check denies with domain.ErrForbidden unless the claim owns the resource
// or holds an override role.
func (p OwnerPolicy) Check(claim domain.IdentityClaim) error {
	// An empty owner id never matches, even against an empty claim id.
	if claim.ID != "" && claim.ID == p.ownerID {
		return nil
	}
	if hasRole(claim.Role, p.overrides) {
		return nil
	}
	if p.msg != "" {
		return domain.Errorf(domain.ErrForbidden, "%s", p.msg)
	}
	return domain.Errorf(domain.ErrForbidden, "you do not own this resource")
}

// AnyOfPolicy passes when at least one of its policies passes.
type AnyOfPolicy struct {
	policies []Policy
	msg      string
}

// AnyOf combines policies with OR semantics. With no policies it always denies.
func AnyOf(policies ...Policy) AnyOfPolicy {
	return AnyOfPolicy{policies: policies}
}

// WithMessage overrides the denial message used when every policy fails.
func (p AnyOfPolicy) WithMessage(msg string) AnyOfPolicy {
	p.msg = msg
	return p
}

// Check passes on the first passing policy.
func (p AnyOfPolicy) Check(claim domain.IdentityClaim) error {
	var first error
	for _, sub := range p.policies {
		err := sub.Check(claim)
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	if p.msg != "" || first == nil {
		msg := p.msg
		if msg == "" {
			msg = "unauthorized"
		}
		return domain.Errorf(domain.ErrForbidden, "%s", msg)
	}
	return first
}

// AllOfPolicy passes only when every policy passes.
type AllOfPolicy []Policy

// AllOf combines policies with AND semantics.
func AllOf(policies ...Policy) AllOfPolicy {
	return AllOfPolicy(policies)
}

// Check returns the first denial, in order.
func (p AllOfPolicy) Check(claim domain.IdentityClaim) error {
	return Authorize(claim, p...)
}

func hasRole(role domain.Role, set []domain.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}

// joinRoles renders "sellers", "admins or vets", "admins, sellers or vets".
func joinRoles(roles []domain.Role) string {
	if len(roles) == 0 {
		return "nobody"
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Plural()
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
