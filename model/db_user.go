package model

import "time"

type User struct {
	Id int64 `gorm:"column:id; primaryKey; not null" json:"id"`

	Username     string `gorm:"column:username; size:64; not null; uniqueIndex" json:"username"`
	PasswordHash string `gorm:"column:password_hash; size:255; not null" json:"-"`
	IsAdmin      bool   `gorm:"column:is_admin; not null" json:"is_admin"`
	AvatarURL    string `gorm:"column:avatar_url; size:512" json:"avatar_url,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at; not null; autoCreateTime" json:"created_at"`
}

func (*User) TableName() string {
	return "users"
}
