package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a member who can check out and reserve boards.
type User struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID string `gorm:"type:uuid;index;not null" json:"locationId"`
	Username   string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	FullName   string `gorm:"size:255;not null" json:"fullName"`
	Email      string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role       string `gorm:"size:20;not null;default:'user'" json:"role"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
