package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleDriver   UserRole = "driver"
	RoleMerchant UserRole = "merchant"
	RoleAdmin    UserRole = "admin"
)

// ValidRole reports whether r is one of the closed set of roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleMerchant, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null;default:'customer'"`
	Phone        string   `json:"phone"`

	// Login-throttle state. Counter and lock timestamp move together;
	// only auth.Service may write them.
	FailedLoginAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil         *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// LockedAt reports whether the account lockout is still in force at t.
func (u *User) LockedAt(t time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(t)
}
