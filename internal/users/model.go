package users

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:250;not null"`
	ContactNumber int64  `gorm:"not null"`
	Email         string `gorm:"size:250;uniqueIndex;not null"`
	PasswordHash  string `gorm:"size:250;not null"`
	Role          Role   `gorm:"size:20;default:user;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
