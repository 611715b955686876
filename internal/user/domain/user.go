package domain

import "time"

type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName     string    `json:"fullName" gorm:"not null"`
	Avatar       string    `json:"avatar" gorm:"not null"`
	CoverImage   string    `json:"coverImage"`
	Password     string    `json:"-" gorm:"not null"` // bcrypt hash, never serialized
	RefreshToken string    `json:"-"`                 // single current value, empty when logged out
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy safe to hand to clients: the password hash and
// the stored refresh token are stripped.
func (u *User) Sanitized() *User {
	c := *u
	c.Password = ""
	c.RefreshToken = ""
	return &c
}
