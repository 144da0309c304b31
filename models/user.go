package models

import (
	"strings"
	"time"
)

// Role is the closed set of account roles. Permission checks switch on it
// exhaustively; raw strings are only interpreted through ParseRole.
type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleUniversityLead Role = "University Lead"
	RoleUniversityID   Role = "University ID"
)

// ParseRole maps user input onto a known role, case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "university lead":
		return RoleUniversityLead, true
	case "university id":
		return RoleUniversityID, true
	}
	return "", false
}

// IsReviewer reports whether the role may decide submissions.
func (r Role) IsReviewer() bool {
	return r == RoleAdmin || r == RoleUniversityLead
}

type User struct {
	UserID   uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username string     `gorm:"column:username;uniqueIndex" json:"username"`
	Password string     `gorm:"column:password" json:"-"`
	Role     Role       `gorm:"column:role" json:"role"`
	Email    *string    `gorm:"column:email" json:"email,omitempty"`
	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}
