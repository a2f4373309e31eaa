package entity

import "github.com/sangkips/isp-billing-api/internal/domain/enum"

// Actor is the authenticated operator (administrator or field agent) behind a request
type Actor struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	Role enum.UserRole `json:"role"`
}

// IsAdmin reports whether the actor holds the administrator role
func (a Actor) IsAdmin() bool {
	return a.Role == enum.UserRoleAdmin
}
