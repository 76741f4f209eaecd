package user

import (
	"context"
	"strings"
	"time"

	"github.com/abhay-gupta-199/kmrl-backend/internal"
)

type Role string

const (
	RoleSuperAdmin       Role = "SuperAdmin"
	RoleChairperson      Role = "Chairperson"
	RoleExecutiveManager Role = "Executive Manager"
	RoleAdmin            Role = "Admin"
	RoleLead             Role = "Lead"
	RoleEmployee         Role = "Employee"
	RoleAuditor          Role = "Auditor"
	RoleSupervisor       Role = "Supervisor"
	RoleDepartmentHead   Role = "DepartmentHead"
	RoleDean             Role = "Dean"
)

// Normalized lowers the role for comparison. Role checks throughout the
// system are case-insensitive.
func (r Role) Normalized() string {
	return strings.ToLower(strings.TrimSpace(string(r)))
}

func (r Role) Is(other Role) bool {
	return r.Normalized() == other.Normalized()
}

func (r Role) IsSuperAdmin() bool {
	return r.Is(RoleSuperAdmin)
}

// CanApprove reports whether the role carries document-approval authority.
func (r Role) CanApprove() bool {
	return r.Is(RoleDepartmentHead) || r.Is(RoleDean)
}

type Department string

const (
	DepartmentAdministration Department = "Administration"
	DepartmentBoard          Department = "Board"
	DepartmentEngineering    Department = "Engineering"
	DepartmentHR             Department = "HR"
	DepartmentFinance        Department = "Finance"
	DepartmentOperations     Department = "Operations"
)

type User struct {
	ID                      int64      `gorm:"primaryKey" json:"id"`
	Email                   string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash            string     `gorm:"column:password_hash;not null" json:"-"`
	Department              Department `gorm:"not null" json:"department"`
	Role                    Role       `gorm:"not null" json:"role"`
	RefreshToken            string     `gorm:"column:refresh_token" json:"-"`
	IsPasswordChangeAllowed bool       `gorm:"column:is_password_change_allowed;default:false" json:"isPasswordChangeAllowed"`
	CreatedBy               *int64     `gorm:"column:created_by" json:"createdBy,omitempty"`
	CreatedAt               time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt               time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// Summary is the denormalized identity shape attached to document listings.
type Summary struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	Department Department `json:"department"`
}

func (u *User) Summary() Summary {
	return Summary{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}

// FromContext returns the authenticated user placed in the request context by
// the auth middleware.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(internal.ContextUserKey).(*User)
	return u, ok && u != nil
}

// NewContext stores the authenticated user in the context.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, internal.ContextUserKey, u)
}
