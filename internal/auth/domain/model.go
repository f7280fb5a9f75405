package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent:
		return true
	default:
		return false
	}
}

type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Email        string       `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	Role         Role         `gorm:"type:text;not null" json:"role"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Actor is the authenticated principal attached to a request.
type Actor struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
	Role Role         `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
