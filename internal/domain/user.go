package domain

import "errors"

// Role represents a caller's access level
type Role string

const (
	// RoleAdmin has full access, including operational endpoints
	RoleAdmin Role = "admin"

	// RoleAgent can run assessments and read their history
	RoleAgent Role = "agent"

	// RoleViewer can only read stored assessments
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleAgent:  true,
	RoleViewer: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanAssess checks if the role can run new assessments
func (r Role) CanAssess() bool {
	return r == RoleAdmin || r == RoleAgent
}

// CanViewAll checks if the role can view stored assessments
func (r Role) CanViewAll() bool {
	return r.IsValid()
}

// User is the authenticated caller: an agent or an operator. ID is the
// token subject.
type User struct {
	ID   string
	Role Role
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
