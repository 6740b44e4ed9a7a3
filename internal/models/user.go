package models

import "gorm.io/gorm"

// UserRole distinguishes regular buyers/sellers from platform admins.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// UserStatus is the account state. SUSPENDED users cannot log in.
type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

// User represents a marketplace user (buyer, seller or admin).
type User struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string     `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string     `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	FullName   string     `json:"full_name" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Role       UserRole   `json:"role" gorm:"type:varchar(20);default:USER"`
	Status     UserStatus `json:"status" gorm:"type:varchar(20);default:ACTIVE"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
