package auth

import "book-review/internal/domain"

// Principal is the authenticated identity attached to a request. It is
// resolved from the bearer token on every request and never cached.
type Principal struct {
	ID   string
	Role domain.Role
}

// Owned is implemented by resources that carry an owning user id.
type Owned interface {
	OwnerID() string
}

// Policy decides whether a principal may perform an action on a
// resource. Keeping the comparisons here avoids scattering role and
// owner checks across handlers.
type Policy struct{}

func NewPolicy() Policy { return Policy{} }

// CanAccessAdmin reports whether the principal may use admin endpoints.
func (Policy) CanAccessAdmin(p Principal) bool {
	return p.Role == domain.RoleAdmin
}

// CanModify reports whether the principal owns the resource.
func (Policy) CanModify(p Principal, resource Owned) bool {
	return resource != nil && p.ID == resource.OwnerID()
}
