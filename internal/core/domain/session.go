package domain

import "time"

// Role is the coarse permission level of an authenticated identity.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleBanker Role = "BANKER"
	RoleClient Role = "CLIENT"
)

// Roles lists every known role, most privileged first.
var Roles = []Role{RoleAdmin, RoleBanker, RoleClient}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBanker, RoleClient:
		return true
	}
	return false
}

// Identity is the authenticated actor as reported by the bank identity service.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Tokens are the bank-issued credentials for a session partition. They are
// stored next to the Session but never exposed to the shell.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session is the per-partition authentication cell.
// Authenticated is true iff Identity is non-nil.
type Session struct {
	ID            string    `json:"id,omitempty"`
	Identity      *Identity `json:"identity"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
}

// NewSession builds an authenticated session for identity.
func NewSession(id string, identity Identity, now time.Time) *Session {
	return &Session{
		ID:            id,
		Identity:      &identity,
		Authenticated: true,
		CreatedAt:     now.UTC(),
	}
}

// Anonymous returns the empty session.
func Anonymous() *Session {
	return &Session{}
}

// Role returns the identity role, or "" for an empty session.
func (s *Session) Role() Role {
	if s == nil || s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// IsAuthenticated reports whether s carries an identity.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Authenticated && s.Identity != nil
}
