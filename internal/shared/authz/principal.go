package authz

import "github.com/google/uuid"

// Principal is the caller identity resolved from request credentials.
// The zero value (uuid.Nil ID) is the anonymous principal.
type Principal struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	IsStaff  bool      `json:"is_staff"`
}

// Anonymous returns a fresh anonymous principal.
func Anonymous() *Principal {
	return &Principal{}
}

func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.ID != uuid.Nil
}

// Is reports whether p is the given user. Anonymous is never anybody.
func (p *Principal) Is(userID uuid.UUID) bool {
	return p.IsAuthenticated() && p.ID == userID
}
