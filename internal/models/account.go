package models

import (
	"time"
)

// Role represents account roles in the portal
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// Account represents the portal account stored on the device
type Account struct {
	ID           string     `bson:"id" json:"id"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password_hash" json:"-"`
	Role         Role       `bson:"role" json:"role"`
	FirstName    string     `bson:"first_name" json:"first_name"`
	LastName     string     `bson:"last_name" json:"last_name"`
	Phone        string     `bson:"phone" json:"phone"`
	Company      string     `bson:"company" json:"company"`
	LastLogin    *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// ProfileUpdate carries the editable profile fields. Empty fields are left unchanged.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
}

// Claims represents JWT claims
type Claims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Exp       int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleCustomer, RoleStaff:
		return true
	default:
		return false
	}
}

// HasPermission checks if an account has permission for a specific action
func (a *Account) HasPermission(action string) bool {
	switch a.Role {
	case RoleStaff:
		return true
	case RoleCustomer:
		return action != "update_appointment_status"
	default:
		return false
	}
}

// Apply copies the non-empty fields of u onto the account.
func (u ProfileUpdate) Apply(a *Account) {
	if u.FirstName != "" {
		a.FirstName = u.FirstName
	}
	if u.LastName != "" {
		a.LastName = u.LastName
	}
	if u.Email != "" {
		a.Email = u.Email
	}
	if u.Phone != "" {
		a.Phone = u.Phone
	}
	if u.Company != "" {
		a.Company = u.Company
	}
}
