package models

import "time"

// Role is the access level of a user within their company.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// CanReview reports whether the role may approve or reject submitted expenses.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleManager
}

// User represents a member of a company.
type User struct {
	Base
	CompanyID   string     `gorm:"type:uuid;not null;index" json:"company_id"`
	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Role        Role       `gorm:"type:varchar(16);not null" json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
