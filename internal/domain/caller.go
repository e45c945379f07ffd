package domain

// Role represents the role of an authenticated caller.
// Authentication itself happens outside this service; the role arrives
// from the identity provider and is trusted as-is.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Caller is the authenticated identity performing an operation
type Caller struct {
	ID   int64
	Role Role
}

// IsAdmin returns true for administrator callers
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAccess reports whether the caller may read or mutate a reservation
// owned by ownerID
func (c Caller) CanAccess(ownerID int64) bool {
	return c.IsAdmin() || c.ID == ownerID
}
