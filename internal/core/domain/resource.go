package domain

// ProtectedResource is a view or action gated by role.
// An empty AllowedRoles set admits any authenticated role.
type ProtectedResource struct {
	Name         string
	AllowedRoles map[Role]struct{}
}

// NewResource builds a ProtectedResource admitting the given roles.
func NewResource(name string, roles ...Role) ProtectedResource {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return ProtectedResource{Name: name, AllowedRoles: allowed}
}

// Admits reports whether role is in the allowed set (or the set is empty).
func (r ProtectedResource) Admits(role Role) bool {
	if len(r.AllowedRoles) == 0 {
		return true
	}
	_, ok := r.AllowedRoles[role]
	return ok
}

// DenyReason explains a denied decision.
type DenyReason string

const (
	ReasonNone            DenyReason = ""
	ReasonUnauthenticated DenyReason = "unauthenticated"
	ReasonForbidden       DenyReason = "forbidden"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

var (
	Allowed               = Decision{Allowed: true}
	DeniedUnauthenticated = Decision{Reason: ReasonUnauthenticated}
	DeniedForbidden       = Decision{Reason: ReasonForbidden}
)

func (d Decision) String() string {
	if d.Allowed {
		return "allowed"
	}
	return string(d.Reason)
}
