package domain

import "time"

type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == UserRoleMember || r == UserRoleAdmin
}

type User struct {
	ID           int32     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	Role         UserRole  `json:"role" db:"role"`
	Balance      Money     `json:"balance" db:"balance"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID   int32
	Username string
	Role     UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}
