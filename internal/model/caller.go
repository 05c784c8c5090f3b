package model

import "github.com/google/uuid"

// Caller roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Caller is the authenticated identity a request acts as. It is resolved once
// by the auth middleware and passed explicitly into every service call; the
// services never read identity from ambient state.
type Caller struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
