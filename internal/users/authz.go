package users

import "github.com/google/uuid"

// Caller identifies the authenticated principal making a request.
type Caller struct {
	ID      uuid.UUID
	Email   string
	IsAdmin bool
}

// CanActOn reports whether the caller may read or mutate the target account.
// Admins may act on anyone, everyone else only on themselves.
func (c Caller) CanActOn(target uuid.UUID) bool {
	if c.IsAdmin {
		return true
	}
	return c.ID != uuid.Nil && c.ID == target
}
