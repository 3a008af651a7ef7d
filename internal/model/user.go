package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. A user holds exactly one,
// assigned at signup.
type Role string

const (
	RoleLandlord        Role = "LANDLORD"
	RoleTenant          Role = "TENANT"
	RoleServiceProvider Role = "SERVICE_PROVIDER"
	RoleAdmin           Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleLandlord, RoleTenant, RoleServiceProvider, RoleAdmin:
		return true
	}
	return false
}

// User represents an account stored in the database. A user with
// IsActive=false has not verified their email and cannot authenticate.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Role      Role      `json:"role" gorm:"type:varchar(30);not null"`
	Username  string    `json:"username" gorm:"type:varchar(100);uniqueIndex"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	Phone     string    `json:"phone" gorm:"type:varchar(15);uniqueIndex"`
	FirstName string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(100)"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	IsActive  bool      `json:"is_active" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns "First Last" for user-facing messages.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
