package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleApprover Role = "APPROVER"
	RoleViewer   Role = "VIEWER"
)

type Principal struct {
	UserID  uuid.UUID
	OrgCode string
	Role    Role
}

func (p Principal) IsAdmin() bool    { return p.Role == RoleAdmin }
func (p Principal) IsApprover() bool { return p.Role == RoleApprover }
func (p Principal) IsViewer() bool   { return p.Role == RoleViewer }

// CanWrite reports whether the principal may edit fields or move a
// document through the approval lifecycle.
func (p Principal) CanWrite() bool {
	return p.Role == RoleAdmin || p.Role == RoleApprover
}
