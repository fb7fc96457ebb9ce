package models

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CanReassign reports whether the role may move a task to another owner.
func (r Role) CanReassign() bool {
	return r == RoleAdmin
}

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:'USER'"`
	CreatedAt time.Time `json:"created_at"`

	Tasks []Task `json:"-" gorm:"foreignKey:UserID"`
}

// Identity is the authenticated caller as carried by a session.
type Identity struct {
	UserID uint `json:"id"`
	Role   Role `json:"role"`
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}

// UserInput is the payload for creating a user.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// UserPatch holds the fields of a partial user update. Absent fields are
// left untouched.
type UserPatch struct {
	Name     Optional[string] `json:"name"`
	Email    Optional[string] `json:"email"`
	Password Optional[string] `json:"password"`
	Role     Optional[Role]   `json:"role"`
}
